package handler

import (
	"errors"
	"html/template"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"imagelab/internal/archive"
	"imagelab/internal/dataset"
	"imagelab/internal/gallery"
	"imagelab/internal/models"
	"imagelab/internal/placeholder"
)

// GeneratorHandler serves the placeholder-image generator app.
type GeneratorHandler interface {
	Index(c *gin.Context)
	Generate(c *gin.Context)
	Train(c *gin.Context)
	TrainPaired(c *gin.Context)
	DownloadImage(c *gin.Context)
	DownloadBundle(c *gin.Context)
}

type generatorHandler struct {
	gallery  *gallery.Gallery
	preparer *dataset.Preparer
	logger   *zap.Logger
}

// NewGeneratorHandler creates a new generator handler.
func NewGeneratorHandler(g *gallery.Gallery, p *dataset.Preparer, logger *zap.Logger) GeneratorHandler {
	return &generatorHandler{
		gallery:  g,
		preparer: p,
		logger:   logger,
	}
}

// generatorView is the template payload for the generator page. The data URI
// is typed template.URL so html/template does not strip the data: scheme.
type generatorView struct {
	Notice       *notice
	Prompt       string
	ImageDataURI template.URL
	ImageName    string
	TrainStatus  string
}

func (h *generatorHandler) render(c *gin.Context, status int, view generatorView) {
	c.HTML(status, "generator.tmpl", view)
}

// Index handles GET /: the forms page, with the session's last generated
// image re-inlined when there is one.
func (h *generatorHandler) Index(c *gin.Context) {
	view := generatorView{}
	if rec, ok := h.gallery.Last(sessionID(c)); ok {
		if body, err := os.ReadFile(rec.ImagePath); err == nil {
			view.Prompt = rec.Prompt
			view.ImageDataURI = template.URL(pngDataURI(body))
			view.ImageName = rec.Name
		}
	}
	h.render(c, http.StatusOK, view)
}

// Generate handles POST /generate: synthesize a placeholder image for the
// prompt and persist it to the session's gallery slot.
func (h *generatorHandler) Generate(c *gin.Context) {
	prompt := strings.TrimSpace(c.PostForm("prompt"))
	if prompt == "" {
		h.render(c, http.StatusBadRequest, generatorView{
			Notice: errorNotice("Please provide a prompt to generate an image."),
		})
		return
	}

	png, err := placeholder.EncodePNG(placeholder.Synthesize(prompt))
	if err != nil {
		h.logger.Error("Failed to encode image", zap.Error(err))
		h.render(c, http.StatusInternalServerError, generatorView{
			Notice: errorNotice("Image generation failed. Please try again."),
			Prompt: prompt,
		})
		return
	}

	rec, err := h.gallery.Save(sessionID(c), prompt, png)
	if err != nil {
		h.logger.Error("Failed to save generated image", zap.Error(err))
		h.render(c, http.StatusInternalServerError, generatorView{
			Notice: errorNotice("Could not store the generated image."),
			Prompt: prompt,
		})
		return
	}

	h.render(c, http.StatusOK, generatorView{
		Notice:       successNotice("Image created below."),
		Prompt:       prompt,
		ImageDataURI: template.URL(pngDataURI(png)),
		ImageName:    rec.Name,
	})
}

// Train handles POST /train: extract the uploaded archive, copy recognized
// images into a fresh run directory and write the metadata sidecar.
func (h *generatorHandler) Train(c *gin.Context) {
	fh, err := c.FormFile("dataset")
	if err != nil {
		h.render(c, http.StatusBadRequest, generatorView{
			Notice: errorNotice("Upload a ZIP file to start training."),
		})
		return
	}

	keywords := dataset.ParseKeywords(c.PostForm("keywords"))

	// Parse before touching the filesystem: a malformed payload must not
	// leave a run directory behind.
	descriptions, err := dataset.ParseDescriptions(c.PostForm("descriptions"))
	if err != nil {
		h.render(c, http.StatusBadRequest, generatorView{
			Notice: errorNotice("Descriptions JSON could not be parsed. Check the formatting."),
		})
		return
	}

	extracted, cleanup, ok := h.extract(c, fh)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.preparer.Prepare(extracted, keywords, descriptions)
	if err != nil {
		h.logger.Error("Failed to prepare training run", zap.Error(err))
		h.render(c, http.StatusInternalServerError, generatorView{
			Notice: errorNotice("Could not prepare the training data."),
		})
		return
	}

	h.render(c, http.StatusOK, generatorView{
		Notice:      successNotice("Training data prepared with %d images. Data stored at %s.", result.Copied, result.RunDir),
		TrainStatus: trainStatus(result),
	})
}

// TrainPaired handles POST /train/paired: one archive of images, one of
// keyword text files, correlated by filename stem. Images without a paired
// text file are reported, not dropped silently.
func (h *generatorHandler) TrainPaired(c *gin.Context) {
	imagesFH, err := c.FormFile("images")
	if err != nil {
		h.render(c, http.StatusBadRequest, generatorView{
			Notice: errorNotice("Upload an images ZIP file to start training."),
		})
		return
	}
	textsFH, err := c.FormFile("keyword_files")
	if err != nil {
		h.render(c, http.StatusBadRequest, generatorView{
			Notice: errorNotice("Upload a keywords ZIP file to start training."),
		})
		return
	}

	keywords := dataset.ParseKeywords(c.PostForm("keywords"))

	images, imagesCleanup, ok := h.extract(c, imagesFH)
	if !ok {
		return
	}
	defer imagesCleanup()

	texts, textsCleanup, ok := h.extract(c, textsFH)
	if !ok {
		return
	}
	defer textsCleanup()

	result, err := h.preparer.PreparePaired(images, texts, keywords)
	if err != nil {
		h.logger.Error("Failed to prepare paired training run", zap.Error(err))
		h.render(c, http.StatusInternalServerError, generatorView{
			Notice: errorNotice("Could not prepare the training data."),
		})
		return
	}

	h.render(c, http.StatusOK, generatorView{
		Notice:      successNotice("Training data prepared with %d matched images. Data stored at %s.", result.Copied, result.RunDir),
		TrainStatus: trainStatus(result),
	})
}

// DownloadImage handles GET /download/image/:name.
func (h *generatorHandler) DownloadImage(c *gin.Context) {
	rec, err := h.open(c)
	if err != nil {
		return
	}
	c.FileAttachment(rec.ImagePath, rec.Name+".png")
}

// DownloadBundle handles GET /download/bundle/:name: a zip of the generated
// PNG and its prompt text.
func (h *generatorHandler) DownloadBundle(c *gin.Context) {
	rec, err := h.open(c)
	if err != nil {
		return
	}

	data, err := h.gallery.Bundle(rec)
	if err != nil {
		h.logger.Error("Failed to bundle image", zap.Error(err), zap.String("name", rec.Name))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to bundle image"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+rec.Name+".zip")
	c.Data(http.StatusOK, "application/zip", data)
}

func (h *generatorHandler) open(c *gin.Context) (*models.GeneratedImage, error) {
	rec, err := h.gallery.Open(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return nil, err
	}
	return rec, nil
}

// extract unpacks an upload into a scratch directory, rendering the
// invalid-archive notice itself on failure.
func (h *generatorHandler) extract(c *gin.Context, fh *multipart.FileHeader) ([]string, func(), bool) {
	scratch, err := os.MkdirTemp("", "imagelab-train-")
	if err != nil {
		h.logger.Error("Failed to create scratch directory", zap.Error(err))
		h.render(c, http.StatusInternalServerError, generatorView{
			Notice: errorNotice("Could not prepare the training data."),
		})
		return nil, nil, false
	}
	cleanup := func() { _ = os.RemoveAll(scratch) }

	extracted, err := archive.ExtractUpload(fh, scratch)
	if err != nil {
		cleanup()
		if errors.Is(err, archive.ErrInvalidArchive) {
			h.render(c, http.StatusBadRequest, generatorView{
				Notice: errorNotice("Could not read that ZIP file. Please re-upload."),
			})
			return nil, nil, false
		}
		h.logger.Error("Failed to extract upload", zap.Error(err))
		h.render(c, http.StatusInternalServerError, generatorView{
			Notice: errorNotice("Could not prepare the training data."),
		})
		return nil, nil, false
	}
	return extracted, cleanup, true
}

func trainStatus(result *models.ImportResult) string {
	status := ""
	if len(result.Skipped) > 0 {
		status = "Skipped (unrecognized extension): " + strings.Join(result.Skipped, ", ") + ". "
	}
	if len(result.Missing) > 0 {
		status += "No keyword file found for: " + strings.Join(result.Missing, ", ") + "."
	}
	return strings.TrimSpace(status)
}
