package server

func (s *Server) initRoutes() {
	// Guest-only auth pages
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.StandardMiddleware(s.GuestOnly())...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.StandardMiddleware(s.GuestOnly())...))
	s.RegisterRouteFunc("GET "+RouteSignup, ChainMiddleware(s.SignupPageHandler(), s.StandardMiddleware(s.GuestOnly())...))
	s.RegisterRouteFunc("POST "+RouteSignup, ChainMiddleware(s.SignupSubmissionHandler(), s.StandardMiddleware(s.GuestOnly())...))
	s.RegisterRouteFunc("GET "+RouteForgotPassword, ChainMiddleware(s.ForgotPasswordPageHandler(), s.StandardMiddleware(s.GuestOnly())...))
	s.RegisterRouteFunc("POST "+RouteForgotPassword, ChainMiddleware(s.ForgotPasswordSubmissionHandler(), s.StandardMiddleware(s.GuestOnly())...))
	s.RegisterRouteFunc("GET "+RouteResetPassword, ChainMiddleware(s.ResetPasswordPageHandler(), s.StandardMiddleware(s.GuestOnly())...))
	s.RegisterRouteFunc("POST "+RouteResetPassword, ChainMiddleware(s.ResetPasswordSubmissionHandler(), s.StandardMiddleware(s.GuestOnly())...))

	// Email verification works for both guests and logged-in users
	s.RegisterRouteFunc("GET "+RouteVerifyEmail, ChainMiddleware(s.VerifyEmailHandler(), s.StandardMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteResendVerification, ChainMiddleware(s.ResendVerificationHandler(), s.StandardMiddleware()...))

	// Logout always clears the session, authenticated or not
	s.RegisterRouteFunc("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.StandardMiddleware()...))

	// Protected pages
	s.RegisterRouteFunc("GET "+RouteHome, ChainMiddleware(s.HomeHandler(), s.StandardMiddleware(s.Protected())...))
}
