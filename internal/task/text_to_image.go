package task

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"taskd/internal/capability"
	"taskd/internal/envelope"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// textToImage sends the prompt and returns the first generated image as PNG.
type textToImage struct{}

func (textToImage) decode(raw string) (capability.Call, error) {
	return capability.Call{Inputs: raw}, nil
}

// encode accepts raw image bytes in any registered format, or a JSON body
// carrying base64 "images" or "image".
func (textToImage) encode(res capability.Result, out *envelope.Response) error {
	data := res.Body
	if res.IsJSON() {
		var wrapped struct {
			Images [][]byte `json:"images"`
			Image  []byte   `json:"image"`
		}
		if err := res.Decode(&wrapped); err != nil {
			return fmt.Errorf("decode image result: %w", err)
		}
		switch {
		case len(wrapped.Images) > 0:
			data = wrapped.Images[0]
		case len(wrapped.Image) > 0:
			data = wrapped.Image
		default:
			return errors.New("pipeline returned no image")
		}
	}
	if bytes.HasPrefix(data, pngSignature) {
		out.AddBytes(envelope.DataPart, data)
		return nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode generated image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s image as png: %w", format, err)
	}
	out.AddBytes(envelope.DataPart, buf.Bytes())
	return nil
}
