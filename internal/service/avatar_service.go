package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"os"
	"path/filepath"

	"campfire/internal/config"
	"campfire/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultAvatarSize     = 256
	DefaultMediaDir       = "./media"
	DefaultMediaURLPrefix = "/media"
	AvatarWebPQuality     = 80
	MaxAvatarUploadSizeMB = 5
	maxAvatarUploadBytes  = MaxAvatarUploadSizeMB * 1024 * 1024
	MaxAvatarDimension    = 4096
	maxAvatarPixels       = MaxAvatarDimension * MaxAvatarDimension
	avatarSubdir          = "avatars"
)

// AvatarService normalizes uploaded profile images into square WebP files.
type AvatarService struct {
	mediaDir  string
	urlPrefix string
	size      int
}

func NewAvatarService(cfg *config.Config) *AvatarService {
	s := &AvatarService{
		mediaDir:  DefaultMediaDir,
		urlPrefix: DefaultMediaURLPrefix,
		size:      DefaultAvatarSize,
	}
	if cfg != nil {
		if cfg.MediaDir != "" {
			s.mediaDir = cfg.MediaDir
		}
		if cfg.MediaURLPrefix != "" {
			s.urlPrefix = cfg.MediaURLPrefix
		}
		if cfg.AvatarSize > 0 {
			s.size = cfg.AvatarSize
		}
	}
	return s
}

// Save decodes content, center-crops it to a square, scales it to the avatar size
// and writes it as WebP. It returns the public URL of the stored file.
func (s *AvatarService) Save(userID uint, content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if len(content) > maxAvatarUploadBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", MaxAvatarUploadSizeMB))
	}
	if !isAllowedImageMIME(http.DetectContentType(content)) {
		return "", models.NewValidationError("Invalid image type")
	}

	// Decoding allocates width*height pixels, so check the header first.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxAvatarPixels {
		return "", models.NewValidationError(fmt.Sprintf("Image too large (max %dx%d pixels)", MaxAvatarDimension, MaxAvatarDimension))
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	avatar := scaleSquare(cropSquare(decoded), s.size)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, avatar, &webp.Options{Quality: AvatarWebPQuality}); err != nil {
		return "", models.NewInternalError(err)
	}

	name := avatarHash(userID, content) + ".webp"
	path := filepath.Join(s.mediaDir, avatarSubdir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", models.NewInternalError(err)
	}
	return s.urlPrefix + "/" + avatarSubdir + "/" + name, nil
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func cropSquare(src image.Image) image.Image {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x := b.Min.X + (b.Dx()-side)/2
	y := b.Min.Y + (b.Dy()-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, draw.Src)
	return dst
}

func scaleSquare(src image.Image, size int) image.Image {
	if src.Bounds().Dx() == size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func avatarHash(userID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
