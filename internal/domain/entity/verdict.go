package entity

const (
	CaptionPresent = "White stripe exists in Centre"
	CaptionAbsent  = "White stripe does not exist"

	MsgImagePassed = "White Stripe detected in Centre, passed."
	MsgImageFailed = "White Stripe could not be detected, Failed."
)

// Classify выносит вердикт только по числу контуров.
func Classify(contours, cutoff int) bool {
	return contours > cutoff
}

// Caption возвращает подпись, которая рисуется на кадре видео.
func Caption(present bool) string {
	if present {
		return CaptionPresent
	}
	return CaptionAbsent
}

// ImageMessage возвращает текстовый вердикт для фото.
func ImageMessage(present bool) string {
	if present {
		return MsgImagePassed
	}
	return MsgImageFailed
}
