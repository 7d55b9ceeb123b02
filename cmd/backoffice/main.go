// Command backoffice serves the order-management back office and carries its
// maintenance commands.
//
//	backoffice migrate
//	backoffice seed
//	backoffice user:create alice alice@example.com --password s3cret-pass --role customer
//	backoffice serve
package main

import (
	"github.com/shashiranjanraj/backoffice/app/routes"
	"github.com/shashiranjanraj/backoffice/database/seeders"
	"github.com/shashiranjanraj/backoffice/pkg/app"
	"github.com/shashiranjanraj/backoffice/resources"

	// Registers the schema migrations.
	_ "github.com/shashiranjanraj/backoffice/database/migrations"
)

func main() {
	app.New("backoffice").
		Views(resources.Views()).
		Static(resources.Static()).
		Identity(routes.Identity).
		Routes(routes.Register).
		Seeder(seeders.RunAll).
		Command(userRoleCmd).
		Command(userCreateCmd).
		Run()
}
