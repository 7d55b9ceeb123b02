// Package services holds the use cases behind the request handlers.
package services

import (
	"github.com/shashiranjanraj/backoffice/app/repositories"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/mail"
	"github.com/shashiranjanraj/backoffice/pkg/storage"
)

// Services bundles every use case over one set of repositories.
type Services struct {
	Auth     *AuthService
	Reset    *PasswordResetService
	Orders   *OrderService
	Accounts *AccountService
	Products *ProductService
}

func New(repos *repositories.Repositories, tokens *auth.ResetTokens, mailer mail.Mailer, disk storage.Disk) *Services {
	return &Services{
		Auth:     NewAuthService(repos.Users),
		Reset:    NewPasswordResetService(repos.Users, tokens, mailer),
		Orders:   NewOrderService(repos),
		Accounts: NewAccountService(repos.Customers, disk),
		Products: NewProductService(repos.Products, disk),
	}
}
