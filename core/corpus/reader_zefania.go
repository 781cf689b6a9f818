package corpus

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// Compiled once; the Zefania layout is XMLBIBLE/BIBLEBOOK/CHAPTER/VERS.
var (
	zefBooks    = xpath.MustCompile("//BIBLEBOOK")
	zefChapters = xpath.MustCompile("CHAPTER")
	zefVerses   = xpath.MustCompile("VERS")
)

// ReadZefania reads a Zefania XML bible. Book order is document order;
// cnumber and vnumber attributes must be exactly 1..n within their parent.
func ReadZefania(r io.Reader, translation, language string) (*Corpus, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.NewCorpusLoad(translation, "parsing XML", err)
	}
	if translation == "" {
		if root := xmlquery.FindOne(doc, "/XMLBIBLE"); root != nil {
			translation = root.SelectAttr("biblename")
		}
	}

	c := New(translation, language)
	for _, bookNode := range xmlquery.QuerySelectorAll(doc, zefBooks) {
		name := strings.TrimSpace(bookNode.SelectAttr("bname"))
		if name == "" {
			return nil, errors.NewCorpusLoad(translation,
				fmt.Sprintf("BIBLEBOOK %q has no bname", bookNode.SelectAttr("bnumber")), nil)
		}

		chapterNodes := xmlquery.QuerySelectorAll(bookNode, zefChapters)
		chapters, err := numbered(chapterNodes, "cnumber", func(n *xmlquery.Node) ([]string, error) {
			return numbered(xmlquery.QuerySelectorAll(n, zefVerses), "vnumber", func(v *xmlquery.Node) (string, error) {
				return strings.TrimSpace(v.InnerText()), nil
			})
		})
		if err != nil {
			return nil, loadErr(translation, name, err)
		}
		if err := c.AddBook(name, chapters); err != nil {
			return nil, loadErr(translation, name, err)
		}
	}
	if c.BookCount() == 0 {
		return nil, errors.NewCorpusLoad(translation, "no BIBLEBOOK elements", nil)
	}
	return c, nil
}

func numbered[T any](nodes []*xmlquery.Node, attr string, value func(*xmlquery.Node) (T, error)) ([]T, error) {
	out := make([]T, len(nodes))
	seen := make([]bool, len(nodes))
	for _, n := range nodes {
		num, err := strconv.Atoi(strings.TrimSpace(n.SelectAttr(attr)))
		if err != nil || num < 1 || num > len(nodes) {
			return nil, fmt.Errorf("%s=%q outside 1..%d", attr, n.SelectAttr(attr), len(nodes))
		}
		if seen[num-1] {
			return nil, fmt.Errorf("duplicate %s=%d", attr, num)
		}
		v, err := value(n)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", attr, num, err)
		}
		out[num-1], seen[num-1] = v, true
	}
	return out, nil
}
