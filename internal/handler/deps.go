package handler

import (
	"codesync/internal/app/collab"
	"codesync/internal/configs"
)

type AppDeps struct {
	Router *collab.Router
	Config *configs.AppConfig
}
