// Package services provides infrastructure services.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/version"
)

const (
	// Cache TTL for release info
	releaseCacheTTL = 1 * time.Hour

	// HTTP request timeout
	httpTimeout = 10 * time.Second

	defaultGitHubAPI = "https://api.github.com"
)

// GitHubRepoConfig identifies the repository whose releases are checked.
type GitHubRepoConfig struct {
	Owner string
	Repo  string
	// Token is optional; it raises the API rate limit.
	Token string
	// APIBaseURL overrides https://api.github.com, mainly for tests.
	APIBaseURL string
}

// ParseGitHubRepo splits "owner/repo".
func ParseGitHubRepo(slug string) (GitHubRepoConfig, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(slug), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return GitHubRepoConfig{}, fmt.Errorf("invalid github repo %q, want owner/repo", slug)
	}
	return GitHubRepoConfig{Owner: owner, Repo: repo}, nil
}

// ReleaseInfo contains information about a GitHub release.
type ReleaseInfo struct {
	Version     string    `json:"version"`
	TagName     string    `json:"tag_name"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// UpdateStatus is the outcome of comparing the running build with the latest release.
type UpdateStatus struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateAvailable bool   `json:"update_available"`
	ReleaseURL      string `json:"release_url,omitempty"`
}

// releaseCache holds cached release information.
type releaseCache struct {
	info      *ReleaseInfo
	expiresAt time.Time
}

// ReleaseChecker fetches the latest release from GitHub and compares it with
// the build version using semver.
type ReleaseChecker struct {
	config     GitHubRepoConfig
	httpClient *http.Client
	cache      *releaseCache
	cacheMu    sync.RWMutex
	fetchGroup singleflight.Group
	logger     logger.Interface
}

func NewReleaseChecker(config GitHubRepoConfig, log logger.Interface) *ReleaseChecker {
	if config.APIBaseURL == "" {
		config.APIBaseURL = defaultGitHubAPI
	}
	return &ReleaseChecker{
		config:     config,
		httpClient: &http.Client{Timeout: httpTimeout},
		logger:     log,
	}
}

// githubRelease represents the GitHub API response for a release.
type githubRelease struct {
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

// Check reports whether a release newer than currentVersion exists.
func (s *ReleaseChecker) Check(ctx context.Context, currentVersion string) (*UpdateStatus, error) {
	info, err := s.GetLatestRelease(ctx)
	if err != nil {
		return nil, err
	}
	return &UpdateStatus{
		CurrentVersion:  currentVersion,
		LatestVersion:   info.Version,
		UpdateAvailable: version.HasNewerVersion(currentVersion, info.Version),
		ReleaseURL:      info.URL,
	}, nil
}

// GetLatestRelease returns the cached release or fetches it once for concurrent callers.
func (s *ReleaseChecker) GetLatestRelease(ctx context.Context) (*ReleaseInfo, error) {
	if info := s.cached(); info != nil {
		return info, nil
	}

	result, err, _ := s.fetchGroup.Do("latest_release", func() (any, error) {
		if info := s.cached(); info != nil {
			return info, nil
		}
		return s.fetchFromGitHub(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*ReleaseInfo), nil
}

func (s *ReleaseChecker) cached() *ReleaseInfo {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	if s.cache != nil && time.Now().Before(s.cache.expiresAt) {
		return s.cache.info
	}
	return nil
}

func (s *ReleaseChecker) fetchFromGitHub(ctx context.Context) (*ReleaseInfo, error) {
	releaseURL := fmt.Sprintf("%s/repos/%s/%s/releases/latest",
		strings.TrimRight(s.config.APIBaseURL, "/"), s.config.Owner, s.config.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "helpdesk")
	if s.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.Token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("release has no tag")
	}

	info := &ReleaseInfo{
		Version:     strings.TrimPrefix(release.TagName, "v"),
		TagName:     release.TagName,
		URL:         release.HTMLURL,
		PublishedAt: release.PublishedAt,
	}

	s.cacheMu.Lock()
	s.cache = &releaseCache{info: info, expiresAt: time.Now().Add(releaseCacheTTL)}
	s.cacheMu.Unlock()

	s.logger.Debugw("fetched latest release from GitHub", "version", info.Version)
	return info, nil
}

// InvalidateCache clears the cached release information.
func (s *ReleaseChecker) InvalidateCache() {
	s.cacheMu.Lock()
	s.cache = nil
	s.cacheMu.Unlock()
}
