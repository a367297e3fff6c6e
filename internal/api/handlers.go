package api

import (
	"bytes"
	"errors"
	"image"
	"net/http"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	imagepkg "github.com/youruser/tangramqr/internal/image"
	"github.com/youruser/tangramqr/internal/manifest"
	"github.com/youruser/tangramqr/internal/pieces"
)

// maxQRSize caps the size query parameter.
const maxQRSize = 2048

// Server renders piece QR codes and the sheet on request; nothing is
// written to disk.
type Server struct {
	Pieces pieces.Set
	Base   string
	Layout imagepkg.Layout
	Log    *logrus.Entry
}

func NewServer(set pieces.Set, base string, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		Pieces: set,
		Base:   pieces.NormalizeBase(base),
		Layout: imagepkg.DefaultLayout(),
		Log:    log.WithField("component", "api"),
	}
}

type pieceInfo struct {
	Piece string `json:"piece"`
	URL   string `json:"url"`
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) piecesHandler(c *gin.Context) {
	out := make([]pieceInfo, 0, s.Pieces.Len())
	for _, id := range s.Pieces.IDs() {
		out = append(out, pieceInfo{Piece: id, URL: pieces.URL(s.Base, id)})
	}
	c.JSON(http.StatusOK, gin.H{"base": s.Base, "pieces": out})
}

// qr endpoint returns the PNG for one piece; size is optional
func (s *Server) qrHandler(c *gin.Context) {
	url, err := s.Pieces.Lookup(s.Base, c.Param("piece"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	size := 0
	if sizeStr := c.Query("size"); sizeStr != "" {
		v, err := strconv.Atoi(sizeStr)
		if err != nil || v <= 0 || v > maxQRSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 1 and " + strconv.Itoa(maxQRSize)})
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(url, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (s *Server) sheetHandler(c *gin.Context) {
	ids := s.Pieces.IDs()
	imgs := make([]image.Image, 0, len(ids))
	for _, id := range ids {
		img, err := imagepkg.GenerateQRImage(pieces.URL(s.Base, id), 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		imgs = append(imgs, img)
	}
	sheet, err := imagepkg.ComposeSheet(s.Base, ids, imgs, s.Layout)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, imagepkg.ErrTooManyCells) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, sheet, imaging.PNG); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) urlsHandler(c *gin.Context) {
	m := manifest.Manifest{URLs: s.Pieces.URLs(s.Base)}
	c.String(http.StatusOK, m.Text())
}

func requestLogger(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("http request")
	}
}
