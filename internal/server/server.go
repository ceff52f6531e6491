// Package server wires the gin routers for the two apps.
package server

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"imagelab/internal/config"
	"imagelab/internal/dataset"
	"imagelab/internal/gallery"
	"imagelab/internal/handler"
	"imagelab/internal/labeling"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Server hosts one of the two apps on its own port.
type Server struct {
	router *gin.Engine
	log    *zap.Logger
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))
	return router
}

// NewGeneratorServer builds the placeholder-generator app.
func NewGeneratorServer(cfg *config.Config, log *zap.Logger) *Server {
	router := newRouter()

	g := gallery.New(cfg.GeneratedDir(), log)
	p := dataset.NewPreparer(cfg.TrainingRunsDir(), log)
	generatorHandler := handler.NewGeneratorHandler(g, p, log)

	router.GET("/", generatorHandler.Index)
	router.POST("/generate", generatorHandler.Generate)
	router.POST("/train", generatorHandler.Train)
	router.POST("/train/paired", generatorHandler.TrainPaired)

	download := router.Group("/download")
	{
		download.GET("/image/:name", generatorHandler.DownloadImage)
		download.GET("/bundle/:name", generatorHandler.DownloadBundle)
	}

	return &Server{router: router, log: log}
}

// NewLabelerServer builds the labeling-assistant app.
func NewLabelerServer(cfg *config.Config, log *zap.Logger) *Server {
	router := newRouter()

	sessions := labeling.NewStore()
	labelerHandler := handler.NewLabelerHandler(sessions, cfg.LabelsDir(), log)

	router.GET("/", labelerHandler.Index)
	router.POST("/upload-dataset", labelerHandler.UploadDataset)
	router.POST("/upload-keywords", labelerHandler.UploadKeywords)
	router.POST("/auto-label", labelerHandler.AutoLabel)
	router.POST("/label", labelerHandler.Label)

	return &Server{router: router, log: log}
}

// Run serves until the listener fails.
func (s *Server) Run(port string) {
	s.log.Info("Server starting", zap.String("port", port))
	if err := s.router.Run(":" + port); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}
