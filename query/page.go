package query

import (
	"fmt"
	"math"

	"github.com/code19m/errx"
)

// Direction is the sort direction of an ordered query.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DirectionOf maps an isDescending flag to a Direction.
func DirectionOf(isDescending bool) Direction {
	if isDescending {
		return Desc
	}
	return Asc
}

// IsDescending reports whether d sorts from greatest to smallest.
func (d Direction) IsDescending() bool { return d == Desc }

// Sort orders results by one field.
type Sort struct {
	Key       Key
	Direction Direction
}

// Page is a zero based window of results.
type Page struct {
	Index int
	Size  int
}

// NewPage validates and returns a page descriptor.
func NewPage(index, size int) (Page, error) {
	p := Page{Index: index, Size: size}
	return p, p.Validate()
}

// Validate rejects negative indexes, sizes smaller than one and pages whose offset
// does not fit in an int.
func (p Page) Validate() error {
	if p.Index < 0 || p.Size < 1 || p.Index > math.MaxInt/p.Size {
		return errx.New(
			fmt.Sprintf("invalid page: index=%d size=%d", p.Index, p.Size),
			errx.WithCode(CodeInvalidPage),
			errx.WithType(errx.T_Validation),
		)
	}
	return nil
}

// Skip is the number of results before the page.
func (p Page) Skip() int { return p.Index * p.Size }

// Limit is the maximum number of results in the page.
func (p Page) Limit() int { return p.Size }

func (p Page) String() string {
	return fmt.Sprintf("index=%d size=%d", p.Index, p.Size)
}
