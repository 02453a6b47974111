package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHome = "/"

	// Auth Routes - Login, Signup & Logout
	RouteLogin  = "/auth/login"
	RouteSignup = "/auth/signup"
	RouteLogout = "/auth/logout"

	// Auth Routes - Password Management
	RouteForgotPassword = "/auth/forgot-password"
	RouteResetPassword  = "/auth/reset-password"

	// Auth Routes - Email Verification
	RouteVerifyEmail        = "/auth/verify-email"
	RouteResendVerification = "/auth/verify-email/resend"
)
