package storage

import (
	"strings"

	"github.com/matzehuels/smartstep/pkg/scene"
)

func encodeBody(s *scene.Scene) (string, error) {
	var b strings.Builder
	if err := scene.Write(&b, s); err != nil {
		return "", err
	}
	return b.String(), nil
}

func decodeBody(body string) (*scene.Scene, error) {
	return scene.Read(strings.NewReader(body))
}
