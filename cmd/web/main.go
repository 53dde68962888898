// @title           Contacts API
// @version         1.0
// @description     Контакты пользователей: регистрация с подтверждением email, JWT-сессии, аватары.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:3000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "contacts_backend/internal/app"

func main() {
	app.Run()
}
