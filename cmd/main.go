package main

import (
	"log"

	_ "gw-transaction-processor/docs"
	"gw-transaction-processor/internal/app"
)

// @title           Webhook Transaction Processor API
// @version         1.0
// @description     Сервис приема вебхуков о транзакциях с идемпотентным сохранением и фоновой финализацией
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /
func main() {
	app, err := app.NewApp()
	if err != nil {
		log.Fatalf("Ошибка создания приложения: %v", err)
	}

	app.BuildTransactionLayer()

	if err := app.Run(); err != nil {
		log.Fatalf("Ошибка при работе приложения: %v", err)
	}
}
