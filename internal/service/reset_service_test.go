package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storm/internal/auth"
	"storm/internal/model"
)

// MockResetTokenRepository is a mock implementation of ResetTokenRepository.
type MockResetTokenRepository struct {
	mock.Mock
}

func (m *MockResetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockResetTokenRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockResetTokenRepository) FindValid(ctx context.Context, tokenHash string, now time.Time) (*model.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordResetToken), args.Error(1)
}

func (m *MockResetTokenRepository) Consume(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockMailer is a mock implementation of mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, fromName, resetLink string) error {
	args := m.Called(ctx, to, fromName, resetLink)
	return args.Error(0)
}

func TestPasswordResetService_Request_UnknownEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTokens := new(MockResetTokenRepository)
	mockMail := new(MockMailer)

	mockUsers.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)

	service := NewPasswordResetService(mockUsers, mockTokens, mockMail)
	err := service.Request(context.Background(), "nobody@x.com", "Storm", "https://app.example.com")

	// No token stored, no mail sent, no error leaked.
	assert.NoError(t, err)
	mockUsers.AssertExpectations(t)
	mockTokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockMail.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPasswordResetService_Request_KnownEmail(t *testing.T) {
	userID := uuid.New()
	user := &model.User{ID: userID, Email: "a@x.com", Name: "A"}

	mockUsers := new(MockUserRepository)
	mockTokens := new(MockResetTokenRepository)
	mockMail := new(MockMailer)

	mockUsers.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	mockTokens.On("InvalidateForUser", mock.Anything, userID).Return(nil)

	var storedHash string
	mockTokens.On("Create", mock.Anything, mock.AnythingOfType("*model.PasswordResetToken")).
		Run(func(args mock.Arguments) {
			token := args.Get(1).(*model.PasswordResetToken)
			storedHash = token.TokenHash
			assert.Equal(t, userID, token.UserID)
			assert.False(t, token.Used)
			assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)
		}).Return(nil)

	var sentLink string
	mockMail.On("SendPasswordReset", mock.Anything, "a@x.com", "Storm", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			sentLink = args.String(3)
		}).Return(nil)

	service := NewPasswordResetService(mockUsers, mockTokens, mockMail)
	err := service.Request(context.Background(), "a@x.com", "Storm", "https://app.example.com")
	require.NoError(t, err)

	// The link carries the raw 64-hex-char token; the store only ever saw
	// its digest.
	prefix := "https://app.example.com/reset-password.html?token="
	require.True(t, strings.HasPrefix(sentLink, prefix))
	rawToken := strings.TrimPrefix(sentLink, prefix)
	assert.Len(t, rawToken, 64)
	assert.NotEqual(t, rawToken, storedHash)
	assert.Equal(t, auth.HashResetToken(rawToken), storedHash)

	mockUsers.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
	mockMail.AssertExpectations(t)
}

func TestPasswordResetService_Reset(t *testing.T) {
	userID := uuid.New()
	rawToken := strings.Repeat("ab", 32)
	tokenHash := auth.HashResetToken(rawToken)

	tests := []struct {
		name          string
		setupMock     func(*MockUserRepository, *MockResetTokenRepository)
		expectedError error
	}{
		{
			name: "successful reset",
			setupMock: func(users *MockUserRepository, tokens *MockResetTokenRepository) {
				tokens.On("FindValid", mock.Anything, tokenHash, mock.AnythingOfType("time.Time")).
					Return(&model.PasswordResetToken{ID: 7, UserID: userID, TokenHash: tokenHash}, nil)
				tokens.On("Consume", mock.Anything, uint(7)).Return(true, nil)
				users.On("UpdatePasswordHash", mock.Anything, userID, mock.AnythingOfType("string")).Return(nil)
			},
		},
		{
			name: "unknown or expired or used token",
			setupMock: func(users *MockUserRepository, tokens *MockResetTokenRepository) {
				tokens.On("FindValid", mock.Anything, tokenHash, mock.AnythingOfType("time.Time")).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrResetTokenInvalid,
		},
		{
			name: "lost the consume race",
			setupMock: func(users *MockUserRepository, tokens *MockResetTokenRepository) {
				tokens.On("FindValid", mock.Anything, tokenHash, mock.AnythingOfType("time.Time")).
					Return(&model.PasswordResetToken{ID: 7, UserID: userID, TokenHash: tokenHash}, nil)
				tokens.On("Consume", mock.Anything, uint(7)).Return(false, nil)
			},
			expectedError: ErrResetTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockTokens := new(MockResetTokenRepository)
			tt.setupMock(mockUsers, mockTokens)

			service := NewPasswordResetService(mockUsers, mockTokens, new(MockMailer))
			err := service.Reset(context.Background(), rawToken, "new-password-1")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockUsers.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}

			mockUsers.AssertExpectations(t)
			mockTokens.AssertExpectations(t)
		})
	}
}

func TestPasswordResetService_Reset_SecondRedemptionFails(t *testing.T) {
	// After a successful redemption the token row is used, so the validity
	// lookup stops matching; a second attempt with the same raw token gets
	// the same generic error as a bogus token.
	userID := uuid.New()
	rawToken := strings.Repeat("cd", 32)
	tokenHash := auth.HashResetToken(rawToken)

	mockUsers := new(MockUserRepository)
	mockTokens := new(MockResetTokenRepository)

	mockTokens.On("FindValid", mock.Anything, tokenHash, mock.AnythingOfType("time.Time")).
		Return(&model.PasswordResetToken{ID: 3, UserID: userID, TokenHash: tokenHash}, nil).Once()
	mockTokens.On("Consume", mock.Anything, uint(3)).Return(true, nil).Once()
	mockUsers.On("UpdatePasswordHash", mock.Anything, userID, mock.AnythingOfType("string")).Return(nil).Once()
	mockTokens.On("FindValid", mock.Anything, tokenHash, mock.AnythingOfType("time.Time")).
		Return(nil, gorm.ErrRecordNotFound).Once()

	service := NewPasswordResetService(mockUsers, mockTokens, new(MockMailer))

	require.NoError(t, service.Reset(context.Background(), rawToken, "new-password-1"))

	err := service.Reset(context.Background(), rawToken, "another-password")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)

	mockUsers.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

func TestPasswordResetService_Request_MailFailure(t *testing.T) {
	userID := uuid.New()
	user := &model.User{ID: userID, Email: "a@x.com", Name: "A"}

	mockUsers := new(MockUserRepository)
	mockTokens := new(MockResetTokenRepository)
	mockMail := new(MockMailer)

	mockUsers.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	mockTokens.On("InvalidateForUser", mock.Anything, userID).Return(nil)
	mockTokens.On("Create", mock.Anything, mock.AnythingOfType("*model.PasswordResetToken")).Return(nil)
	mockMail.On("SendPasswordReset", mock.Anything, "a@x.com", "Storm", mock.AnythingOfType("string")).
		Return(fmt.Errorf("smtp unreachable"))

	service := NewPasswordResetService(mockUsers, mockTokens, mockMail)
	err := service.Request(context.Background(), "a@x.com", "Storm", "https://app.example.com")
	assert.Error(t, err)
}
