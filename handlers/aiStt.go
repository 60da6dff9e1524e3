package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"fundilink/config"
	"fundilink/utils"

	speech "cloud.google.com/go/speech/apiv1"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

const (
	maxAudioSize = 5 * 1024 * 1024
)

// Voice notes arrive as OGG/Opus from WhatsApp; plain WAV is accepted too.
var allowedAudioExts = map[string]bool{
	".wav": true,
	".ogg": true,
	".m4a": true,
}

// transcodeAudio converts any supported input to 16kHz mono LINEAR16, the
// format the recognizer is configured for.
func transcodeAudio(inputPath, outputPath string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in system PATH: %w", err)
	}

	cmd := exec.Command("ffmpeg",
		"-y",
		"-i", inputPath,
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		outputPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %s", stderr.String())
	}
	return nil
}

// TranscribeHandler handles POST /api/ai/stt: multipart audio in, transcript
// out. Clients use it to turn voice notes into text before sending them
// through the normal booking flow.
func TranscribeHandler(c *gin.Context) {
	language := c.DefaultPostForm("language", "en-KE")

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); !allowedAudioExts[ext] {
		utils.JSONError(c, http.StatusBadRequest, "unsupported audio type", ext)
		return
	}

	tempInput, err := os.CreateTemp("", "voice-*"+filepath.Ext(header.Filename))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to buffer audio", err.Error())
		return
	}
	defer os.Remove(tempInput.Name())
	defer tempInput.Close()

	if _, err := io.Copy(tempInput, io.LimitReader(file, maxAudioSize)); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to buffer audio", err.Error())
		return
	}

	tempOutput, err := os.CreateTemp("", "voice-*.wav")
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to buffer audio", err.Error())
		return
	}
	defer os.Remove(tempOutput.Name())
	defer tempOutput.Close()

	if err := transcodeAudio(tempInput.Name(), tempOutput.Name()); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio conversion failed", err.Error())
		return
	}

	audioData, err := os.ReadFile(tempOutput.Name())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read converted audio", err.Error())
		return
	}

	ctx := c.Request.Context()
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(config.AppConfig.GoogleServiceAccountFile))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to initialize speech client", err.Error())
		return
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   16000,
			LanguageCode:      language,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "speech recognition failed", err.Error())
		return
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			transcript.WriteString(alt.Transcript + " ")
		}
	}

	c.JSON(http.StatusOK, gin.H{"transcription": strings.TrimSpace(transcript.String())})
}
