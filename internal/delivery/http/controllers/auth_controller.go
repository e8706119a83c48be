package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferencescheduler/internal/delivery/http/helpers"
	"conferencescheduler/internal/domain"
)

// SignUpRequest is the request body for POST /auth/signup. It always creates an attendee.
type SignUpRequest struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// CreateAccountRequest is the request body for POST /accounts.
type CreateAccountRequest struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"omitempty,email"`
	Type     string `json:"type" validate:"required,account_type"`
}

// Validate implements helpers.Validator.
func (c CreateAccountRequest) Validate() []string {
	if strings.ContainsAny(c.Username, " /") {
		return []string{"username must not contain spaces or slashes"}
	}
	return nil
}

// LoginResponse is the data of a successful login.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

// AccountSuccessResponse is the success envelope for account creation.
type AccountSuccessResponse struct {
	Data  *domain.Account   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// LoginSuccessResponse is the success envelope for POST /auth/login.
type LoginSuccessResponse struct {
	Data  LoginResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ScheduleViewSuccessResponse is the success envelope for GET /me/schedule.
type ScheduleViewSuccessResponse struct {
	Data  *domain.ScheduleView `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type AuthController struct {
	Logger   *slog.Logger
	Accounts domain.AccountService
}

func NewAuthController(logger *slog.Logger, accounts domain.AccountService) *AuthController {
	return &AuthController{Logger: logger, Accounts: accounts}
}

// SignUp godoc
// @Summary Register an attendee account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Credentials"
// @Success 201 {object} controllers.AccountSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	account, err := c.Accounts.Register(r.Context(), strings.TrimSpace(req.Username), req.Password, req.Email)
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, account)
}

// Login godoc
// @Summary Log in
// @Description Matches username and password and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} controllers.LoginSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, account, err := c.Accounts.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, Account: account})
}

// CreateAccount godoc
// @Summary Create an account of any type
// @Description Organizers may create speakers and attendees; admins may create any type.
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAccountRequest true "Account"
// @Success 201 {object} controllers.AccountSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /accounts [post]
func (c *AuthController) CreateAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req CreateAccountRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	accountType, err := domain.ParseAccountType(req.Type)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	account, err := c.Accounts.CreateAccount(r.Context(), caller, strings.TrimSpace(req.Username), req.Password, req.Email, accountType)
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, account)
}

// MySchedule godoc
// @Summary The caller's calendar, hosting and organized entries
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ScheduleViewSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /me/schedule [get]
func (c *AuthController) MySchedule(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	view, err := c.Accounts.Schedule(r.Context(), caller)
	if err != nil {
		writeFailure(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}
