package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/votease/api/internal/core/domain"
)

// In-memory repositories backing the service tests. They mirror the store
// contracts, including the conditional vote insert.

type fakePollRepo struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*domain.Poll
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: make(map[uuid.UUID]*domain.Poll)}
}

func (r *fakePollRepo) Save(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *poll
	r.polls[poll.ID] = &cp
	return nil
}

func (r *fakePollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	cp := *poll
	return &cp, nil
}

func (r *fakePollRepo) Update(_ context.Context, id uuid.UUID, patch domain.PollPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	if patch.Title != nil {
		poll.Title = *patch.Title
	}
	if patch.Statement != nil {
		poll.Statement = *patch.Statement
	}
	if patch.Options != nil {
		poll.Options = patch.Options
	}
	if patch.StartDate != nil {
		poll.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		poll.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		poll.Status = *patch.Status
	}
	if patch.Flagged != nil {
		poll.Flagged = *patch.Flagged
	}
	return nil
}

func (r *fakePollRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}

func (r *fakePollRepo) Find(_ context.Context, filter domain.PollFilter) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Poll
	for _, poll := range r.polls {
		if filter.Status != nil && poll.Status != *filter.Status {
			continue
		}
		if filter.Flagged != nil && poll.Flagged != *filter.Flagged {
			continue
		}
		if filter.CreatorID != nil && poll.CreatorID != *filter.CreatorID {
			continue
		}
		cp := *poll
		out = append(out, &cp)
	}
	return out, nil
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[string]*domain.Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[string]*domain.Vote)}
}

func voteKey(pollID, userID uuid.UUID) string {
	return pollID.String() + "_" + userID.String()
}

func (r *fakeVoteRepo) Create(_ context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey(vote.PollID, vote.UserID)
	if _, ok := r.votes[key]; ok {
		return domain.ErrAlreadyVoted
	}
	cp := *vote
	r.votes[key] = &cp
	return nil
}

func (r *fakeVoteRepo) GetByPollAndUser(_ context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vote, ok := r.votes[voteKey(pollID, userID)]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	cp := *vote
	return &cp, nil
}

func (r *fakeVoteRepo) Delete(_ context.Context, pollID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey(pollID, userID)
	if _, ok := r.votes[key]; !ok {
		return domain.ErrVoteNotFound
	}
	delete(r.votes, key)
	return nil
}

func (r *fakeVoteRepo) DeleteByPoll(_ context.Context, pollID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, vote := range r.votes {
		if vote.PollID == pollID {
			delete(r.votes, key)
		}
	}
	return nil
}

func (r *fakeVoteRepo) CountByOption(_ context.Context, pollID uuid.UUID) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, vote := range r.votes {
		if vote.PollID == pollID {
			counts[vote.Option]++
		}
	}
	return counts, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) addUser(user *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID] = &cp
	return user
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.addUser(user)
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, update domain.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	return nil
}

type fakeAuthRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *fakeAuthRepo) StoreRefreshToken(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	cp := *token
	r.tokens[token.TokenHash] = &cp
	return nil
}

func (r *fakeAuthRepo) GetRefreshTokenByHash(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, nil
	}
	cp := *token
	return &cp, nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.ID.String() == id {
			token.Revoked = true
		}
	}
	return nil
}
