// Package replicate drives a hosted wav2lip model for lip-synced avatar
// video: it creates a prediction with the face image and speech audio inlined
// as data URIs, polls until the prediction settles, and downloads the
// rendered video.
package replicate
