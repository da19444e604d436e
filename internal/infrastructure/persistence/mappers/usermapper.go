package mappers

import (
	"fmt"

	"github.com/orris-inc/helpdesk/internal/domain/user"
	vo "github.com/orris-inc/helpdesk/internal/domain/user/valueobjects"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
	ToEntities(models []*models.UserModel) ([]*user.User, error)
}

// UserMapperImpl is the concrete implementation of UserMapper
type UserMapperImpl struct{}

// NewUserMapper creates a new user mapper
func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity
func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}
	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create email value object: %w", err)
	}
	return user.ReconstructUser(
		model.ID,
		model.Name,
		email,
		authorization.ParseUserRole(model.Role),
		model.IsAIAgent,
		model.OrganizationID,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	)
}

// ToModel converts a domain entity to a persistence model
func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}
	return &models.UserModel{
		ID:             entity.ID(),
		Email:          entity.Email().String(),
		Name:           entity.Name(),
		Role:           entity.Role().String(),
		IsAIAgent:      entity.IsAIAgent(),
		OrganizationID: entity.OrganizationID(),
		CreatedAt:      entity.CreatedAt().UnixMilli(),
		UpdatedAt:      entity.UpdatedAt().UnixMilli(),
	}
}

// ToEntities converts multiple persistence models to domain entities
func (m *UserMapperImpl) ToEntities(models []*models.UserModel) ([]*user.User, error) {
	entities := make([]*user.User, 0, len(models))
	for _, model := range models {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map user %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
