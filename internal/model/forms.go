package model

// SignupForm holds the sign-up fields between submit and re-render.
type SignupForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninForm holds the sign-in fields between submit and re-render.
type SigninForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Redacted drops the password for logging.
func (f SignupForm) Redacted() SignupForm {
	f.Password = ""
	return f
}

// Redacted drops the password for logging.
func (f SigninForm) Redacted() SigninForm {
	f.Password = ""
	return f
}
