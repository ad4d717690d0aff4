package identity

import (
	"context"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, eventBus shared.EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Register creates a new customer account
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*identity.User, error) {
	if err := s.checkAvailability(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if input.FirstName != "" || input.LastName != "" {
		if err := user.SetName(input.FirstName, input.LastName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.publishEvents(ctx, user)
	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return user, nil
}

// Create creates a user on behalf of an administrator
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*identity.User, error) {
	if err := s.checkAvailability(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	var user *identity.User
	var err error
	if input.IsSuperuser {
		user, err = identity.NewSuperuser(input.Username, input.Email, input.Password)
	} else {
		user, err = identity.NewUser(input.Username, input.Email, input.Password)
	}
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" || input.LastName != "" {
		if err := user.SetName(input.FirstName, input.LastName); err != nil {
			return nil, err
		}
	}
	for _, groupID := range input.GroupIDs {
		user.AssignGroup(groupID)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.publishEvents(ctx, user)
	return user, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// List retrieves users matching the filter together with the total count
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.User], error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(users, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update modifies a user's profile fields
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "Email address is already in use")
		}
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.FirstName != nil || input.LastName != nil {
		firstName := user.FirstName
		lastName := user.LastName
		if input.FirstName != nil {
			firstName = *input.FirstName
		}
		if input.LastName != nil {
			lastName = *input.LastName
		}
		if err := user.SetName(firstName, lastName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	return user, nil
}

// Activate reactivates a deactivated user
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.updateUser(ctx, id, func(user *identity.User) error {
		return user.Activate()
	})
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.updateUser(ctx, id, func(user *identity.User) error {
		return user.Deactivate()
	})
}

// AssignGroup adds a user to a group
func (s *UserService) AssignGroup(ctx context.Context, userID, groupID uuid.UUID) error {
	return s.updateUser(ctx, userID, func(user *identity.User) error {
		user.AssignGroup(groupID)
		return nil
	})
}

// RemoveGroup removes a user from a group
func (s *UserService) RemoveGroup(ctx context.Context, userID, groupID uuid.UUID) error {
	return s.updateUser(ctx, userID, func(user *identity.User) error {
		user.RemoveGroup(groupID)
		return nil
	})
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) updateUser(ctx context.Context, id uuid.UUID, mutate func(*identity.User) error) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := mutate(user); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}
	return nil
}

func (s *UserService) checkAvailability(ctx context.Context, username, email string) error {
	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError("EMAIL_TAKEN", "Email address is already in use")
	}

	return nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, user.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish user events", zap.Error(err))
	}
	user.ClearDomainEvents()
}
