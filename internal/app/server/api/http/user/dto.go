package user

type credentials struct {
	Login    string `json:"login" doc:"Account login" minLength:"3" maxLength:"32"`
	Password string `json:"password" doc:"Account password" minLength:"8"`
}

type registerInput struct {
	Body credentials
}

type registerOutput struct {
	Body RegisterResponse
}

type RegisterResponse struct {
	ID     int    `json:"user_id"`
	Status string `json:"status"`
}

type loginInput struct {
	Body credentials
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}
