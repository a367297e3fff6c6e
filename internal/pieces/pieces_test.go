package pieces

import (
	"errors"
	"fmt"
	"testing"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

type PiecesSuite struct{}

var _ = Suite(&PiecesSuite{})

func (s *PiecesSuite) TestDefaultOrder(c *C) {
	ids := Default().IDs()
	c.Assert(ids, HasLen, 7)
	for i, id := range ids {
		c.Check(id, Equals, fmt.Sprintf("piece_%d", i+1))
	}
}

func (s *PiecesSuite) TestNormalizeBase(c *C) {
	c.Check(NormalizeBase("http://127.0.0.1:5501/index.html?"), Equals, "http://127.0.0.1:5501/index.html")
	c.Check(NormalizeBase("http://x/???"), Equals, "http://x/")
	c.Check(NormalizeBase("http://x/?a=1"), Equals, "http://x/?a=1")
	c.Check(NormalizeBase(""), Equals, "")
}

func (s *PiecesSuite) TestURL(c *C) {
	c.Check(URL("http://127.0.0.1:5501/index.html?", "piece_1"), Equals, "http://127.0.0.1:5501/index.html?piece=piece_1")
	c.Check(URL(DefaultBase, "piece_7"), Equals, "http://localhost:8080/?piece=piece_7")
}

func (s *PiecesSuite) TestURLsFollowSetOrder(c *C) {
	base := "https://example.org/app??"
	urls := Default().URLs(base)
	c.Assert(urls, HasLen, 7)
	for i, u := range urls {
		c.Check(u, Equals, fmt.Sprintf("https://example.org/app?piece=piece_%d", i+1))
	}
}

func (s *PiecesSuite) TestSetIsImmutable(c *C) {
	src := []string{"a", "b"}
	set := NewSet(src...)
	src[0] = "z"
	ids := set.IDs()
	ids[1] = "y"
	c.Check(set.IDs(), DeepEquals, []string{"a", "b"})
}

func (s *PiecesSuite) TestLookup(c *C) {
	u, err := Default().Lookup("http://h/", "piece_3")
	c.Assert(err, IsNil)
	c.Check(u, Equals, "http://h/?piece=piece_3")

	_, err = Default().Lookup("http://h/", "piece_8")
	c.Check(errors.Is(err, ErrUnknown), Equals, true)
}

func (s *PiecesSuite) TestResolve(c *C) {
	cases := map[string]string{
		"http://127.0.0.1:5501/index.html?piece=piece_1": "piece_1",
		"HTTPS://example.org/?a=1&piece=piece_2":         "piece_2",
		"?piece=piece_3":                                 "piece_3",
		"index.html?piece=piece_4":                       "piece_4",
		"  piece_5\n":                                   "piece_5",
		"piece_7":                                        "piece_7",
	}
	for raw, want := range cases {
		got, err := Resolve(raw)
		c.Check(err, IsNil, Commentf("raw %q", raw))
		c.Check(got, Equals, want, Commentf("raw %q", raw))
	}
}

func (s *PiecesSuite) TestResolveRejects(c *C) {
	for _, raw := range []string{
		"",
		"piece_8",
		"http://h/?piece=piece_9",
		"http://h/app?piece=old?piece=piece_1",
		"http://h/?other=piece_1",
	} {
		_, err := Resolve(raw)
		c.Check(errors.Is(err, ErrUnknown), Equals, true, Commentf("raw %q", raw))
	}
}

func (s *PiecesSuite) TestResolveGeneratedURLs(c *C) {
	set := Default()
	for i, u := range set.URLs("http://127.0.0.1:5501/index.html?") {
		got, err := set.Resolve(u)
		c.Assert(err, IsNil)
		c.Check(got, Equals, set.IDs()[i])
	}
}

func (s *PiecesSuite) TestResolveCustomSet(c *C) {
	set := NewSet("a", "b")
	got, err := set.Resolve("?piece=b")
	c.Assert(err, IsNil)
	c.Check(got, Equals, "b")
	_, err = set.Resolve("piece_1")
	c.Check(errors.Is(err, ErrUnknown), Equals, true)
}
