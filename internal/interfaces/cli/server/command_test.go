package server

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMapEnvToGinMode(t *testing.T) {
	cases := map[string]string{
		"production":  gin.ReleaseMode,
		"prod":        gin.ReleaseMode,
		"release":     gin.ReleaseMode,
		"test":        gin.TestMode,
		"development": gin.DebugMode,
		"staging":     gin.DebugMode,
	}
	for env, want := range cases {
		assert.Equal(t, want, mapEnvToGinMode(env), env)
	}
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 15*time.Second, seconds(0, 15))
	assert.Equal(t, 30*time.Second, seconds(30, 15))
}
