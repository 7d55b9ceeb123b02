// Package routes mounts every page with its name and access guard.
package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/backoffice/app/controllers"
	"github.com/shashiranjanraj/backoffice/app/repositories"
	"github.com/shashiranjanraj/backoffice/app/services"
	"github.com/shashiranjanraj/backoffice/config"
	"github.com/shashiranjanraj/backoffice/pkg/app"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/rbac"
)

// Guard redirect targets.
const (
	loginPath = "/login/"
	homePath  = "/"
	userPath  = "/user/"
)

// Identity resolves session users through the users table.
func Identity(db *gorm.DB) auth.Loader {
	return repositories.NewUserRepository(db)
}

// Register wires repositories, services and controllers over the kernel's
// resources and mounts the pages.
func Register(k *app.Kernel) {
	tokens := auth.NewResetTokens(config.AppKey(), config.PasswordResetTimeout())
	svc := services.New(repositories.New(k.Deps.DB), tokens, k.Deps.Mailer, k.Deps.Disk)
	h := controllers.New(svc, config.AppURL())

	r, w := k.Router, k.Kit.Wrap
	deny := k.Kit.Deny

	guest := rbac.Guest(homePath)
	signedIn := rbac.Authenticated(loginPath)
	admin := rbac.HasRole(deny, auth.RoleAdmin)
	customer := rbac.HasRole(deny, auth.RoleCustomer)

	r.Form("/register/", "register", w(h.Register), guest)
	r.Form("/login/", "login", w(h.Login), guest)
	r.Any("/logout/", "logout", w(h.Logout))

	r.Get("/", "home", w(h.Home), signedIn, rbac.AdminOnly(userPath, deny))
	r.Get("/user/", "user", w(h.UserPage), signedIn, customer)
	r.Form("/account/", "account", w(h.AccountSettings), signedIn, customer)

	staff := r.Group("/", signedIn, admin)
	staff.Get("/products/", "products", w(h.Products))
	staff.Form("/products/create/", "create_product", w(h.CreateProduct))
	staff.Form("/update_product/{id}/", "update_product", w(h.UpdateProduct))
	staff.Get("/customers/{id}/", "customer", w(h.Customer))
	staff.Form("/delete_customer/{id}/", "delete_customer", w(h.DeleteCustomer))
	staff.Form("/create_order/{id}/", "create_order", w(h.CreateOrder))
	staff.Form("/update_order/{id}/", "update_order", w(h.UpdateOrder))
	staff.Form("/delete_order/{id}/", "delete_order", w(h.DeleteOrder))

	reset := r.Group("/", guest)
	reset.Form("/reset_password/", "password_reset", w(h.PasswordReset))
	reset.Get("/reset_password_sent/", "password_reset_done", w(h.ResetSent))
	reset.Form("/reset/{uidb64}/{token}/", "password_reset_confirm", w(h.ResetConfirm))
	reset.Get("/reset_password_complete/", "password_reset_complete", w(h.ResetComplete))
}
