package user

type SignInRequest struct {
	Login    string `json:"login" form:"login" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	AccessToken  string `json:"access_token" form:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" form:"refresh_token" validate:"required"`
}
