package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Словарь эмоций модели распознавания и глифы для отображения.
const (
	EmotionAngry    = "angry"
	EmotionFear     = "fear"
	EmotionHappy    = "happy"
	EmotionNeutral  = "neutral"
	EmotionSad      = "sad"
	EmotionSurprise = "surprise"
)

var emotionGlyphs = map[string]string{
	EmotionAngry:    "😠",
	EmotionFear:     "😨",
	EmotionHappy:    "😄",
	EmotionNeutral:  "😐",
	EmotionSad:      "😢",
	EmotionSurprise: "😲",
}

// Glyph возвращает глиф для эмоции, для неизвестной метки — глиф neutral.
func Glyph(label string) string {
	if glyph, ok := emotionGlyphs[label]; ok {
		return glyph
	}
	return emotionGlyphs[EmotionNeutral]
}

// ReactionBody собирает текст комментария-реакции.
func ReactionBody(label string) string {
	return fmt.Sprintf("reacted with emotion: %s %s", label, Glyph(label))
}

// Classifier — внешний распознаватель эмоций. Реализация обязана
// укладываться в таймаут; ошибку вызывающий заменяет на neutral.
type Classifier interface {
	Classify(ctx context.Context, imageData string) (string, error)
}

// ScriptClassifier вызывает python-скрипт распознавания: картинка
// пишется во временный файл, метка читается из stdout.
type ScriptClassifier struct {
	Python  string
	Script  string
	Timeout time.Duration
}

func NewScriptClassifier(script string) *ScriptClassifier {
	return &ScriptClassifier{
		Python:  "python3",
		Script:  script,
		Timeout: 10 * time.Second,
	}
}

func (c *ScriptClassifier) Classify(ctx context.Context, imageData string) (string, error) {
	raw, err := decodeImage(imageData)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "reaction-*.jpg")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.Python, c.Script, tmp.Name()).Output()
	if err != nil {
		return "", fmt.Errorf("emotion script failed: %w", err)
	}

	label := strings.ToLower(strings.TrimSpace(string(out)))
	if _, ok := emotionGlyphs[label]; !ok {
		return "", fmt.Errorf("emotion script returned unknown label %q", label)
	}
	return label, nil
}

// decodeImage принимает чистый base64 или data URL из канваса.
func decodeImage(imageData string) ([]byte, error) {
	if idx := strings.Index(imageData, ","); idx != -1 && strings.HasPrefix(imageData, "data:") {
		imageData = imageData[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, fmt.Errorf("invalid image data: %w", err)
	}
	return raw, nil
}
