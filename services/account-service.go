package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/repositories"
	"taskflow-project/dashboard-service/utils"
)

type AccountService struct {
	accounts repositories.AccountRepository
	tokens   *utils.TokenManager
	notifier Notifier
}

func NewAccountService(accounts repositories.AccountRepository, tokens *utils.TokenManager) *AccountService {
	return &AccountService{
		accounts: accounts,
		tokens:   tokens,
	}
}

func (s *AccountService) WithNotifier(notifier Notifier) *AccountService {
	s.notifier = notifier
	return s
}

// Register creates a Leader or a Member. A Member must name an existing
// Leader; a Leader must not name one.
func (s *AccountService) Register(ctx context.Context, reg models.Registration) (*models.Account, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if err := models.Validate(reg); err != nil {
		return nil, validationError(err)
	}
	if !reg.Role.Valid() {
		return nil, NewError(ErrorCodeValidation, "role must be Leader or Member")
	}

	account := &models.Account{
		Name:      strings.TrimSpace(reg.Name),
		Email:     reg.Email,
		Role:      reg.Role,
		CreatedAt: time.Now().UTC(),
	}

	switch reg.Role {
	case models.RoleMember:
		if reg.LeaderID == "" {
			return nil, NewError(ErrorCodeValidation, "a member must have a leader")
		}
		leaderID, err := parseID(reg.LeaderID, "leader")
		if err != nil {
			return nil, err
		}
		leader, err := s.accounts.Get(ctx, leaderID)
		if err != nil {
			return nil, storeError(err, "leader")
		}
		if leader.Role != models.RoleLeader {
			return nil, NewError(ErrorCodeValidation, "leader_id does not reference a leader")
		}
		account.LeaderID = &leaderID
	case models.RoleLeader:
		if reg.LeaderID != "" {
			return nil, NewError(ErrorCodeValidation, "a leader cannot have a leader")
		}
	}

	hash, err := utils.HashPassword(reg.Password)
	if err != nil {
		logging.Logger.Errorf("Event ID: PASSWORD_HASH_FAILED, Description: %v", err)
		return nil, NewError(ErrorCodeUnspecified, "failed to hash password")
	}
	account.PasswordHash = hash

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, storeError(err, "account")
	}
	logging.Logger.Infof("Event ID: ACCOUNT_REGISTERED, Description: %s account %s registered", account.Role, account.ID.Hex())
	return account, nil
}

// Login checks the credentials and returns a signed token for the account.
// Unknown emails and wrong passwords are reported the same way.
func (s *AccountService) Login(ctx context.Context, creds models.Credentials) (string, *models.Account, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := models.Validate(creds); err != nil {
		return "", nil, validationError(err)
	}

	account, err := s.accounts.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, NewError(ErrorCodeUnauthorized, "invalid email or password")
		}
		return "", nil, storeError(err, "account")
	}
	if !utils.CheckPassword(account.PasswordHash, creds.Password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for account %s", account.ID.Hex())
		return "", nil, NewError(ErrorCodeUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.GenerateToken(account.ID.Hex(), string(account.Role))
	if err != nil {
		logging.Logger.Errorf("Event ID: TOKEN_GENERATION_FAILED, Description: %v", err)
		return "", nil, NewError(ErrorCodeUnspecified, "failed to generate token")
	}
	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: Account %s logged in", account.ID.Hex())
	return token, account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	id, err := parseID(accountID, "account")
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "account")
	}
	return account, nil
}

func (s *AccountService) ListLeaders(ctx context.Context) ([]models.Account, error) {
	leaders, err := s.accounts.ListByRole(ctx, models.RoleLeader)
	if err != nil {
		return nil, storeError(err, "leaders")
	}
	return leaders, nil
}

// ToggleMemberVerification flips the verified flag of one of leaderID's
// members and returns the updated account. Applying it twice restores
// the original value.
func (s *AccountService) ToggleMemberVerification(ctx context.Context, leaderID, memberID string) (*models.Account, error) {
	leader, err := parseID(leaderID, "leader")
	if err != nil {
		return nil, err
	}
	id, err := parseID(memberID, "member")
	if err != nil {
		return nil, err
	}

	member, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "member")
	}
	if !member.IsMember() {
		return nil, NewError(ErrorCodeNotFound, "member not found")
	}
	if !member.ReportsTo(leader) {
		return nil, NewError(ErrorCodeForbidden, "member does not report to this leader")
	}

	updated, err := s.accounts.SetVerified(ctx, id, !member.Verified)
	if err != nil {
		return nil, storeError(err, "member")
	}
	logging.Logger.Infof("Event ID: MEMBER_VERIFICATION_TOGGLED, Description: Member %s verified=%t", memberID, updated.Verified)

	s.notify(ctx, updated)
	return updated, nil
}

func (s *AccountService) notify(ctx context.Context, member *models.Account) {
	if s.notifier == nil {
		return
	}
	state := "unverified"
	if member.Verified {
		state = "verified"
	}
	message := fmt.Sprintf("Your leader marked your account as %s", state)
	if err := s.notifier.Notify(ctx, member.ID.Hex(), message); err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_FAILED, Description: Failed to notify member %s: %v", member.ID.Hex(), err)
	}
}
