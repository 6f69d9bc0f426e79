// Package render converts assembled documents into PDF.
package render

import (
	"fmt"
	"os/exec"

	"github.com/ajambaliya/gktodaypostpdf/internal/config"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
	"github.com/ajambaliya/gktodaypostpdf/internal/repository"
)

// New picks the renderer named by cfg.Engine.
func New(cfg config.RenderConfig, log logger.Logger) (repository.Renderer, error) {
	switch cfg.Engine {
	case "chrome":
		return NewChromeRenderer(cfg.ChromePath, cfg.Timeout, log), nil
	case "libreoffice":
		return NewLibreOfficeRenderer(cfg.SofficePath, cfg.Timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", cfg.Engine)
	}
}

func findFirstExecutable(executables ...string) string {
	for _, executable := range executables {
		path, err := exec.LookPath(executable)
		if err == nil {
			return path
		}
	}
	return ""
}
