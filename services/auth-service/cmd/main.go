package main

import (
	"github.com/suteetoe/homeorganizer/gomicro/app"
	"github.com/suteetoe/homeorganizer/services/auth-service/internal/bootstrap"
)

func main() {
	app.Main(bootstrap.Service())
}
