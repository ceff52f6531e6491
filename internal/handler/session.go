package handler

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "imagelab_session"

// sessionID returns the caller's session id, minting and setting a cookie on
// first contact. Each session owns its own labeling walker and last-generated
// slot, so two browsers never share state.
func sessionID(c *gin.Context) string {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	}
	return id
}

// notice is a one-shot user-visible message rendered at the top of a page.
type notice struct {
	Kind string // "success" or "error"
	Text string
}

func successNotice(format string, args ...any) *notice {
	return &notice{Kind: "success", Text: fmt.Sprintf(format, args...)}
}

func errorNotice(format string, args ...any) *notice {
	return &notice{Kind: "error", Text: fmt.Sprintf(format, args...)}
}

// dataURI inlines a file as a base64 data URI for the preview <img> tags.
func dataURI(path string) (string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "":
		ext = "png"
	case "jpg":
		ext = "jpeg"
	}
	encoded := base64.StdEncoding.EncodeToString(body)
	return fmt.Sprintf("data:image/%s;base64,%s", ext, encoded), nil
}

func pngDataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
