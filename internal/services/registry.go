package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService    AuthService
	UserService    UserService
	ContactService ContactService
	UploadService  UploadService
	EmailService   *EmailService
}
