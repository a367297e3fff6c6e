package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	. "gopkg.in/check.v1"

	imagepkg "github.com/youruser/tangramqr/internal/image"
	"github.com/youruser/tangramqr/internal/pieces"
)

func Test(t *testing.T) { TestingT(t) }

type APISuite struct {
	engine *gin.Engine
}

var _ = Suite(&APISuite{})

func (s *APISuite) SetUpSuite(c *C) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	s.engine = NewEngine(NewServer(pieces.Default(), "http://h/app?", log))
}

func (s *APISuite) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *APISuite) TestHealth(c *C) {
	w := s.get("/api/health")
	c.Check(w.Code, Equals, http.StatusOK)
	c.Check(w.Body.String(), Equals, `{"status":"ok"}`)
}

func (s *APISuite) TestPieces(c *C) {
	w := s.get("/api/pieces")
	c.Assert(w.Code, Equals, http.StatusOK)
	var body struct {
		Base   string      `json:"base"`
		Pieces []pieceInfo `json:"pieces"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &body), IsNil)
	c.Check(body.Base, Equals, "http://h/app")
	c.Assert(body.Pieces, HasLen, 7)
	c.Check(body.Pieces[6], Equals, pieceInfo{Piece: "piece_7", URL: "http://h/app?piece=piece_7"})
}

func (s *APISuite) TestQR(c *C) {
	w := s.get("/api/qr/piece_2")
	c.Assert(w.Code, Equals, http.StatusOK)
	c.Check(w.Header().Get("Content-Type"), Equals, "image/png")

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	c.Assert(err, IsNil)
	got, err := imagepkg.DecodeQR(img)
	c.Assert(err, IsNil)
	c.Check(got, Equals, "http://h/app?piece=piece_2")
}

func (s *APISuite) TestQRSize(c *C) {
	w := s.get("/api/qr/piece_1?size=300")
	c.Assert(w.Code, Equals, http.StatusOK)
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	c.Assert(err, IsNil)
	c.Check(img.Bounds().Dx(), Equals, 300)

	c.Check(s.get("/api/qr/piece_1?size=abc").Code, Equals, http.StatusBadRequest)
	c.Check(s.get("/api/qr/piece_1?size=99999").Code, Equals, http.StatusBadRequest)
}

func (s *APISuite) TestQRUnknownPiece(c *C) {
	w := s.get("/api/qr/piece_8")
	c.Check(w.Code, Equals, http.StatusNotFound)
}

func (s *APISuite) TestSheet(c *C) {
	w := s.get("/api/sheet")
	c.Assert(w.Code, Equals, http.StatusOK)
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	c.Assert(err, IsNil)

	qr, err := imagepkg.GenerateQRImage("http://h/app?piece=piece_1", 0)
	c.Assert(err, IsNil)
	wantW, wantH := imagepkg.DefaultLayout().CanvasSize(qr.Bounds().Dx(), qr.Bounds().Dy())
	c.Check(img.Bounds().Dx(), Equals, wantW)
	c.Check(img.Bounds().Dy(), Equals, wantH)
}

func (s *APISuite) TestURLs(c *C) {
	w := s.get("/api/urls")
	c.Assert(w.Code, Equals, http.StatusOK)
	c.Check(w.Body.String(), Equals, "http://h/app?piece=piece_1\nhttp://h/app?piece=piece_2\nhttp://h/app?piece=piece_3\n"+
		"http://h/app?piece=piece_4\nhttp://h/app?piece=piece_5\nhttp://h/app?piece=piece_6\nhttp://h/app?piece=piece_7")
}
