package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cartzilla/domain"
	"cartzilla/internal/repository/events"
	redisrepo "cartzilla/internal/repository/redis"
	"cartzilla/pkg/logger"
	"cartzilla/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/pobyzaarif/goshortcute"
)

// UserRepository contract interface
type UserRepository interface {
	Register(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	UpdateWithProfile(ctx context.Context, user *domain.User, customer *domain.Customer, seller *domain.Seller) error
	UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error
}

// ProfileRepository contract interface
type ProfileRepository interface {
	FindCustomerByUserID(ctx context.Context, userID uint) (domain.Customer, error)
	FindSellerByUserID(ctx context.Context, userID uint) (domain.Seller, error)
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) error
}

// TokenRepository contract interface
type TokenRepository interface {
	StoreToken(ctx context.Context, userID string, data redisrepo.TokenData, ttl time.Duration) error
	ValidateToken(ctx context.Context, userID, token string) (string, error)
	DeleteToken(ctx context.Context, userID string) error
}

// EventPublisher contract interface
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event map[string]interface{}) error
}

const (
	verificationCodeTTL      = 5
	loginTokenTTL            = 24 * time.Hour
	SubjectRegisterAccount   = "Activate Your Account!"
	EmailBodyRegisterAccount = `Hello %v, activate your account by opening the link below</br></br>%v</br>note: the link is only valid for %v minutes`
)

// Profile is the combined identity + role-specific profile view.
type Profile struct {
	User     domain.User      `json:"user"`
	Customer *domain.Customer `json:"customer,omitempty"`
	Seller   *domain.Seller   `json:"seller,omitempty"`
}

type userService struct {
	userRepo                UserRepository
	profileRepo             ProfileRepository
	notifRepo               NotificationRepository
	tokenRepo               TokenRepository
	publisher               EventPublisher
	validate                *validator.Validate
	appEmailVerificationKey string
	appDeploymentUrl        string
}

func NewUserService(
	userRepo UserRepository,
	profileRepo ProfileRepository,
	notifRepo NotificationRepository,
	tokenRepo TokenRepository,
	publisher EventPublisher,
	validate *validator.Validate,
	appEmailVerificationKey string,
	appDeploymentUrl string,
) *userService {
	return &userService{
		userRepo:                userRepo,
		profileRepo:             profileRepo,
		notifRepo:               notifRepo,
		tokenRepo:               tokenRepo,
		publisher:               publisher,
		validate:                validate,
		appEmailVerificationKey: appEmailVerificationKey,
		appDeploymentUrl:        appDeploymentUrl,
	}
}

var validRoles = map[string]bool{
	domain.RoleCustomer: true,
	domain.RoleSeller:   true,
}

// Register creates the account with its chosen role, the role audit row and
// exactly one matching profile row, then sends the verification email.
func (s *userService) Register(ctx context.Context, username, email, password, accountType string) (domain.User, error) {
	if err := s.validate.Var(username, "required,min=3,max=50"); err != nil {
		logger.Error("Invalid username", err)
		return domain.User{}, errors.New("username must be between 3 and 50 characters")
	}

	if err := s.validate.Var(email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	if !validRoles[accountType] {
		logger.Error("Invalid account type", accountType)
		return domain.User{}, errors.New("account type must be customer or seller")
	}

	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, errors.New("email already exists")
	}

	if existing, err := s.userRepo.FindByUsername(ctx, username); err == nil && existing.ID > 0 {
		logger.Error("Username already exists")
		return domain.User{}, errors.New("username already exists")
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		Username:   username,
		Email:      email,
		Password:   passwordHash,
		Role:       accountType,
		IsVerified: false,
	}

	if err := s.userRepo.Register(ctx, &newUser); err != nil {
		logger.Error("Failed to register user", err)
		return domain.User{}, err
	}

	expAt := time.Now().Add(time.Minute * verificationCodeTTL).Unix()
	verificationCode := fmt.Sprintf("%v|%v", newUser.Email, expAt)
	verificationCodeEncrypt, err := goshortcute.AESCBCEncrypt([]byte(verificationCode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Failed to encrypt verification code", err)
		return domain.User{}, errors.New("failed to create verification code")
	}
	strEncode := goshortcute.StringtoBase64Encode(verificationCodeEncrypt)
	activationLink := s.appDeploymentUrl + "/api/v1/users/email-verification/" + strEncode

	if err := s.notifRepo.SendEmail(newUser.Username, newUser.Email, SubjectRegisterAccount,
		fmt.Sprintf(EmailBodyRegisterAccount, newUser.Username, activationLink, verificationCodeTTL)); err != nil {
		logger.Warn("Failed to send verification email", err)
	}

	if err := s.publisher.Publish(ctx, events.TopicUserEvents, strconv.FormatUint(uint64(newUser.ID), 10), map[string]interface{}{
		"type":     "user_registered",
		"user_id":  newUser.ID,
		"username": newUser.Username,
		"role":     newUser.Role,
	}); err != nil {
		logger.Warn("Failed to publish user event", err)
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, errors.New("invalid credentials")
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.Error("User password incorrect")
		return "", domain.User{}, errors.New("invalid credentials")
	}

	if !user.IsVerified {
		logger.Error("Email address has not been verified")
		return "", domain.User{}, errors.New("email address has not been verified")
	}

	userIDStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIDStr, user.Role, user.IsAdmin)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	now := time.Now()
	tokenData := redisrepo.TokenData{
		UserID:    userIDStr,
		Role:      user.Role,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(loginTokenTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.tokenRepo.StoreToken(ctx, userIDStr, tokenData, loginTokenTTL); err != nil {
		logger.Error("Failed to store login token", err)
		return "", domain.User{}, errors.New("failed to store login token")
	}

	user.Password = ""
	return token, user, nil
}

func (s *userService) Logout(ctx context.Context, userID uint) error {
	return s.tokenRepo.DeleteToken(ctx, strconv.FormatUint(uint64(userID), 10))
}

// ValidateToken backs the redis-checked auth middleware.
func (s *userService) ValidateToken(ctx context.Context, userID, token string) (string, error) {
	return s.tokenRepo.ValidateToken(ctx, userID, token)
}

func (s *userService) VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error {
	strDecode := goshortcute.StringtoBase64Decode(verificationCodeEncrypt)
	verificationCodeDecrypt, err := goshortcute.AESCBCDecrypt([]byte(strDecode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("invalid or expired url")
	}

	verificationCode := strings.Split(verificationCodeDecrypt, "|")
	if len(verificationCode) != 2 {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}

	email := verificationCode[0]
	ts, err := strconv.ParseInt(verificationCode[1], 10, 64)
	if err != nil {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}

	if time.Now().After(time.Unix(ts, 0)) {
		return errors.New("invalid or expired url")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("invalid or expired url")
	}

	if user.IsVerified {
		logger.Warn("Email verified already", user.Email)
		return errors.New("invalid or expired url")
	}

	if err := s.userRepo.UpdateEmailVerification(ctx, user.ID, true); err != nil {
		logger.Error("Failed to update email verification", err)
		return err
	}

	return nil
}

// GetProfile returns the identity plus the role-matching profile row.
func (s *userService) GetProfile(ctx context.Context, userID uint) (Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return Profile{}, err
	}

	user.Password = ""
	profile := Profile{User: user}

	if user.Role == domain.RoleSeller {
		seller, err := s.profileRepo.FindSellerByUserID(ctx, userID)
		if err != nil {
			logger.Error("Failed to get seller profile", err)
			return Profile{}, err
		}
		profile.Seller = &seller
	} else {
		customer, err := s.profileRepo.FindCustomerByUserID(ctx, userID)
		if err != nil {
			logger.Error("Failed to get customer profile", err)
			return Profile{}, err
		}
		profile.Customer = &customer
	}

	return profile, nil
}

// UpdateProfile edits the identity fields and the role-specific profile
// field in one submission. Both halves are validated up front and written
// in one transaction, so a failing half never persists the other.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, username, email, address, details string) (Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("User not found for profile update", err)
		return Profile{}, err
	}

	if err := s.validate.Var(username, "required,min=3,max=50"); err != nil {
		logger.Error("Invalid username", err)
		return Profile{}, errors.New("username must be between 3 and 50 characters")
	}

	if err := s.validate.Var(email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return Profile{}, errors.New("invalid email format")
	}

	if other, err := s.userRepo.FindByEmail(ctx, email); err == nil && other.ID != userID {
		logger.Error("Email already exists")
		return Profile{}, errors.New("email already exists")
	}

	if other, err := s.userRepo.FindByUsername(ctx, username); err == nil && other.ID != userID {
		logger.Error("Username already exists")
		return Profile{}, errors.New("username already exists")
	}

	user.Username = username
	user.Email = email

	var customer *domain.Customer
	var seller *domain.Seller
	if user.Role == domain.RoleSeller {
		seller = &domain.Seller{UserID: userID, Details: details}
	} else {
		if err := s.validate.Var(address, "max=255"); err != nil {
			logger.Error("Invalid address", err)
			return Profile{}, errors.New("address must be at most 255 characters")
		}
		customer = &domain.Customer{UserID: userID, Address: address}
	}

	if err := s.userRepo.UpdateWithProfile(ctx, &user, customer, seller); err != nil {
		logger.Error("Failed to update profile", err)
		return Profile{}, err
	}

	return s.GetProfile(ctx, userID)
}
