package handler

import (
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"imagelab/internal/archive"
	"imagelab/internal/dataset"
	"imagelab/internal/labeling"
	"imagelab/internal/models"
)

// LabelerHandler serves the image-labeling assistant app.
type LabelerHandler interface {
	Index(c *gin.Context)
	UploadDataset(c *gin.Context)
	UploadKeywords(c *gin.Context)
	AutoLabel(c *gin.Context)
	Label(c *gin.Context)
}

type labelerHandler struct {
	sessions  *labeling.Store
	labelsDir string
	logger    *zap.Logger
}

// NewLabelerHandler creates a new labeler handler writing label files under
// labelsDir.
func NewLabelerHandler(sessions *labeling.Store, labelsDir string, logger *zap.Logger) LabelerHandler {
	return &labelerHandler{
		sessions:  sessions,
		labelsDir: labelsDir,
		logger:    logger,
	}
}

// labelerView is the template payload for the labeler page. The data URI is
// typed template.URL so html/template does not strip the data: scheme.
type labelerView struct {
	Notice         *notice
	ImageCount     int
	KeywordCount   int
	Keywords       []string
	CursorPosition int // 1-based position shown to the user
	CurrentName    string
	ImageDataURI   template.URL
	ManualComplete bool
}

func (h *labelerHandler) session(c *gin.Context) *labeling.Session {
	sess := h.sessions.Get(sessionID(c))
	// The store may mint a fresh id when the cookie pointed at nothing.
	c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
	return sess
}

func (h *labelerHandler) render(c *gin.Context, status int, sess *labeling.Session, n *notice) {
	view := labelerView{
		Notice:         n,
		ImageCount:     len(sess.Images),
		KeywordCount:   len(sess.Keywords),
		Keywords:       sess.Keywords,
		CursorPosition: sess.Walker.Cursor() + 1,
		ManualComplete: sess.Walker.Complete(),
	}

	if current, ok := sess.Walker.Current(); ok {
		view.CurrentName = current.Name
		uri, err := dataURI(current.Path)
		if err != nil {
			h.logger.Warn("Failed to inline current image", zap.Error(err), zap.String("name", current.Name))
		} else {
			view.ImageDataURI = template.URL(uri)
		}
	}

	c.HTML(status, "labeler.tmpl", view)
}

// Index handles GET /.
func (h *labelerHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, h.session(c), nil)
}

// UploadDataset handles POST /upload-dataset: extract the archive, keep the
// recognized images, and reset the walker.
func (h *labelerHandler) UploadDataset(c *gin.Context) {
	sess := h.session(c)

	fh, err := c.FormFile("dataset")
	if err != nil {
		h.render(c, http.StatusBadRequest, sess, errorNotice("Please choose a ZIP file."))
		return
	}

	// The extracted files back the session's previews for its whole
	// lifetime, so the scratch directory is not removed here.
	scratch, err := os.MkdirTemp("", "imagelab-dataset-")
	if err != nil {
		h.logger.Error("Failed to create scratch directory", zap.Error(err))
		h.render(c, http.StatusInternalServerError, sess, errorNotice("Could not read that ZIP file. Please try again."))
		return
	}

	extracted, err := archive.ExtractUpload(fh, scratch)
	if err != nil {
		if errors.Is(err, archive.ErrInvalidArchive) {
			h.render(c, http.StatusBadRequest, sess, errorNotice("Could not read that ZIP file. Please try again."))
			return
		}
		h.logger.Error("Failed to extract dataset", zap.Error(err))
		h.render(c, http.StatusInternalServerError, sess, errorNotice("Could not read that ZIP file. Please try again."))
		return
	}

	var images []models.ImageRef
	for _, path := range extracted {
		if dataset.IsImageFile(path) {
			images = append(images, models.ImageRef{Name: filepath.Base(path), Path: path})
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })

	sess.LoadImages(images)
	h.render(c, http.StatusOK, sess, successNotice("Loaded %d images.", len(images)))
}

// UploadKeywords handles POST /upload-keywords.
func (h *labelerHandler) UploadKeywords(c *gin.Context) {
	sess := h.session(c)

	keywords := dataset.ParseKeywords(c.PostForm("keywords"))
	if len(keywords) == 0 {
		h.render(c, http.StatusBadRequest, sess, errorNotice("Add your keyword list to continue."))
		return
	}

	sess.SetKeywords(keywords)
	h.render(c, http.StatusOK, sess, successNotice("Stored %d keywords.", len(keywords)))
}

// AutoLabel handles POST /auto-label: substring-match every loaded filename
// against the keyword list, persist the result, and seed the manual map.
func (h *labelerHandler) AutoLabel(c *gin.Context) {
	sess := h.session(c)

	if len(sess.Images) == 0 || len(sess.Keywords) == 0 {
		h.render(c, http.StatusBadRequest, sess, errorNotice("Upload a dataset and keywords before running auto labeling."))
		return
	}

	labels := labeling.Match(sess.ImageNames(), sess.Keywords)
	path, err := labeling.SaveLabels(h.labelsDir, "auto-labels", labels)
	if err != nil {
		h.logger.Error("Failed to save auto labels", zap.Error(err))
		h.render(c, http.StatusInternalServerError, sess, errorNotice("Could not save the auto labels."))
		return
	}

	sess.Walker.Seed(labels)
	h.logger.Info("auto labels saved", zap.String("path", path), zap.Int("images", len(labels)))
	h.render(c, http.StatusOK, sess, successNotice("Auto labels saved to %s", path))
}

// Label handles POST /label: record the checkbox selections for the current
// image and advance the walker. On the transition into the complete state
// the accumulated labels are persisted exactly once.
func (h *labelerHandler) Label(c *gin.Context) {
	sess := h.session(c)

	if len(sess.Images) == 0 {
		h.render(c, http.StatusBadRequest, sess, errorNotice("Upload a dataset first."))
		return
	}
	if len(sess.Keywords) == 0 {
		h.render(c, http.StatusBadRequest, sess, errorNotice("Add your keyword list to continue."))
		return
	}

	done, err := sess.Walker.Record(c.PostFormArray("labels"))
	if err != nil {
		if errors.Is(err, labeling.ErrComplete) {
			h.render(c, http.StatusOK, sess, successNotice("All images are already labeled."))
			return
		}
		h.render(c, http.StatusBadRequest, sess, errorNotice("Upload a dataset first."))
		return
	}

	if !done {
		h.render(c, http.StatusOK, sess, nil)
		return
	}

	path, err := labeling.SaveLabels(h.labelsDir, "manual-labels", sess.Walker.Labels())
	if err != nil {
		h.logger.Error("Failed to save manual labels", zap.Error(err))
		h.render(c, http.StatusInternalServerError, sess, errorNotice("Could not save the manual labels."))
		return
	}
	h.render(c, http.StatusOK, sess, successNotice("Saved labels to %s. Connect your training backend to continue.", path))
}
