package stubapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Dastanbekov/jumushtap1/internal/api/dto"
	"github.com/Dastanbekov/jumushtap1/internal/domain"
)

// AuthHandler exposes the auth endpoints of the stub backend. Error
// bodies mimic the production API: {"detail": ...} for flow failures,
// {"<field>": ["msg"]} for validation failures.
type AuthHandler struct {
	registry   *Registry
	tokens     *TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(registry *Registry, tokens *TokenManager, bcryptCost int, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{registry: registry, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

type registerBody struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Phone    string          `json:"phone"`
	UserType string          `json:"user_type"`
	Profile  json.RawMessage `json:"profile"`
}

// Login handles POST /api/v1/auth/login/.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return detail(c, http.StatusBadRequest, "email and password required")
	}

	rec, err := h.registry.GetByEmail(req.Email)
	if err != nil {
		return detail(c, http.StatusBadRequest, "Login failed")
	}
	if err := comparePassword(rec.PasswordHash, req.Password); err != nil {
		return detail(c, http.StatusBadRequest, "Login failed")
	}

	access, refresh, err := h.tokens.GeneratePair(rec.ID, rec.Role)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenPairResponse{Access: access, Refresh: refresh})
}

// Register handles POST /api/v1/auth/register/.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerBody
	if err := c.BodyParser(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	fieldErrors := map[string][]string{}
	requireField(fieldErrors, "email", req.Email)
	requireField(fieldErrors, "password", req.Password)
	requireField(fieldErrors, "phone", req.Phone)
	requireField(fieldErrors, "user_type", req.UserType)

	role, roleErr := domain.ParseRole(req.UserType)
	if req.UserType != "" && roleErr != nil {
		fieldErrors["user_type"] = append(fieldErrors["user_type"], "invalid user type")
	}
	if len(fieldErrors) > 0 {
		return fields(c, fieldErrors)
	}

	profile, fieldErrors := decodeProfile(role, req.Profile)
	if len(fieldErrors) > 0 {
		return fields(c, fieldErrors)
	}

	hash, err := hashPassword(req.Password, h.bcryptCost)
	if err != nil {
		return err
	}
	rec := &UserRecord{
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		Profile:      profile,
	}
	if err := h.registry.Create(rec); err != nil {
		switch {
		case errors.Is(err, errEmailTaken):
			return fields(c, map[string][]string{"email": {"user with this email already exists."}})
		case errors.Is(err, errBINTaken):
			return fields(c, map[string][]string{"bin": {"already exists"}})
		default:
			return err
		}
	}
	h.logger.Info("stub user registered", zap.String("email", rec.Email), zap.String("role", string(role)))

	access, refresh, err := h.tokens.GeneratePair(rec.ID, rec.Role)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenPairResponse{Access: access, Refresh: refresh})
}

// Me handles GET /api/v1/auth/me/.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := h.bearerClaims(c)
	if !ok {
		return detail(c, http.StatusUnauthorized, "Given token not valid for any token type")
	}
	rec, err := h.registry.GetByID(claims.Subject)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "User not found")
	}

	body := dto.MeResponse{
		ID:       rec.ID,
		Email:    rec.Email,
		Phone:    rec.Phone,
		UserType: string(rec.Role),
	}
	switch profile := rec.Profile.(type) {
	case domain.WorkerProfile:
		body.FullName = profile.FullName
	case domain.BusinessProfile:
		body.CompanyName = profile.CompanyName
		body.BIN = profile.BIN
		body.INN = profile.INN
		body.LegalAddress = profile.LegalAddress
		body.ContactName = profile.ContactName
		body.ContactNumber = profile.ContactNumber
	case domain.IndividualProfile:
		body.FullNameRu = profile.FullNameRu
	}
	return c.JSON(body)
}

// Refresh handles POST /api/v1/auth/token/refresh/.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return detail(c, http.StatusBadRequest, "refresh token required")
	}

	claims, err := h.tokens.Parse(req.Refresh, "refresh")
	if err != nil {
		return detail(c, http.StatusUnauthorized, "Token is invalid or expired")
	}
	rec, err := h.registry.GetByID(claims.Subject)
	if err != nil {
		return detail(c, http.StatusUnauthorized, "User not found")
	}

	access, err := h.tokens.GenerateAccess(rec.ID, rec.Role)
	if err != nil {
		return err
	}
	return c.JSON(dto.RefreshResponse{Access: access})
}

func (h *AuthHandler) bearerClaims(c *fiber.Ctx) (*Claims, bool) {
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}
	claims, err := h.tokens.Parse(parts[1], "access")
	if err != nil {
		return nil, false
	}
	return claims, true
}

func decodeProfile(role domain.Role, raw json.RawMessage) (domain.Profile, map[string][]string) {
	fieldErrors := map[string][]string{}
	if len(raw) == 0 {
		fieldErrors["profile"] = append(fieldErrors["profile"], "this field is required")
		return nil, fieldErrors
	}

	switch role {
	case domain.RoleWorker:
		var payload dto.WorkerProfilePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			fieldErrors["profile"] = append(fieldErrors["profile"], "invalid profile payload")
			return nil, fieldErrors
		}
		requireField(fieldErrors, "full_name", payload.FullName)
		if len(fieldErrors) > 0 {
			return nil, fieldErrors
		}
		return domain.WorkerProfile{FullName: payload.FullName}, nil

	case domain.RoleBusiness:
		var payload dto.BusinessProfilePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			fieldErrors["profile"] = append(fieldErrors["profile"], "invalid profile payload")
			return nil, fieldErrors
		}
		requireField(fieldErrors, "company_name", payload.CompanyName)
		requireField(fieldErrors, "bin", payload.BIN)
		if len(fieldErrors) > 0 {
			return nil, fieldErrors
		}
		return domain.BusinessProfile{
			CompanyName:   payload.CompanyName,
			BIN:           payload.BIN,
			INN:           payload.INN,
			LegalAddress:  payload.LegalAddress,
			ContactName:   payload.ContactName,
			ContactNumber: payload.ContactNumber,
		}, nil

	default:
		var payload dto.IndividualProfilePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			fieldErrors["profile"] = append(fieldErrors["profile"], "invalid profile payload")
			return nil, fieldErrors
		}
		requireField(fieldErrors, "full_name_ru", payload.FullNameRu)
		if len(fieldErrors) > 0 {
			return nil, fieldErrors
		}
		return domain.IndividualProfile{FullNameRu: payload.FullNameRu}, nil
	}
}

func requireField(fieldErrors map[string][]string, name, value string) {
	if value == "" {
		fieldErrors[name] = append(fieldErrors[name], "this field is required")
	}
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}

func fields(c *fiber.Ctx, fieldErrors map[string][]string) error {
	return c.Status(http.StatusUnprocessableEntity).JSON(fieldErrors)
}
