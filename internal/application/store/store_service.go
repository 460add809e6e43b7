package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"go.uber.org/zap"
)

// StoreService handles storefront management
type StoreService struct {
	storeRepo      store.StoreRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(
	storeRepo store.StoreRepository,
	userRepo identity.UserRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *StoreService {
	return &StoreService{
		storeRepo:      storeRepo,
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create opens a store for an owner. An owner holds at most one store
// and store names are unique across the system.
func (s *StoreService) Create(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*StoreResponse, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsStoreOwner() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only store owners can open a store")
	}

	if _, err := s.storeRepo.FindByOwner(ctx, ownerID); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Owner already has a store")
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	taken, err := s.storeRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Store name '%s' is already taken", req.Name))
	}

	st, err := store.NewStore(ownerID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, st.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish store events", zap.Error(err))
		}
		st.ClearDomainEvents()
	}

	s.logger.Info("store created",
		zap.String("store_id", st.ID.String()),
		zap.String("owner_id", ownerID.String()))

	resp := ToStoreResponse(st)
	return &resp, nil
}

// Get returns one store
func (s *StoreService) Get(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(st)
	return &resp, nil
}

// GetByOwner returns the store owned by a user
func (s *StoreService) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(st)
	return &resp, nil
}

// List returns stores matching the filter
func (s *StoreService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[StoreResponse], error) {
	stores, err := s.storeRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[StoreResponse]{}, err
	}
	total, err := s.storeRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[StoreResponse]{}, err
	}
	items := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		items = append(items, ToStoreResponse(&stores[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update applies partial changes to a store. Only the owner may update.
func (s *StoreService) Update(ctx context.Context, id, actorID uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.IsOwnedBy(actorID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the store owner can modify the store")
	}

	if req.Name != nil && *req.Name != st.Name {
		taken, err := s.storeRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Store name '%s' is already taken", *req.Name))
		}
		if err := st.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		st.SetDescription(*req.Description)
	}

	if err := s.storeRepo.Save(ctx, st); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(st)
	return &resp, nil
}

// Statistics returns the store's lifetime counters
func (s *StoreService) Statistics(ctx context.Context, id uuid.UUID) (*store.Statistics, error) {
	if _, err := s.storeRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.storeRepo.Statistics(ctx, id)
}
