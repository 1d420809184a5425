package forms

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ErrTrailingData is returned when a JSON body holds more than one value.
var ErrTrailingData = errors.New("unexpected data after JSON body")

// Bind decodes the request body into obj. JSON bodies must contain exactly one
// value; other content types go through gin's binding for that type.
func Bind(c *gin.Context, obj any) error {
	if c.ContentType() != binding.MIMEJSON {
		return c.ShouldBind(obj)
	}
	if c.Request.Body == nil {
		return io.EOF
	}

	dec := json.NewDecoder(c.Request.Body)
	if err := dec.Decode(obj); err != nil {
		return err
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}
