package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/craftsocial/poster/internal/cloudinary"
	"github.com/craftsocial/poster/internal/config"
	"github.com/craftsocial/poster/internal/firebase"
	"github.com/craftsocial/poster/internal/instagram"
	"github.com/craftsocial/poster/internal/logging"
	"github.com/craftsocial/poster/internal/mediaprep"
	"github.com/craftsocial/poster/internal/publish"
)

// CLI flags
var (
	imageFlag   string
	captionFlag string
	archiveFlag bool
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "poster",
	Short: "Post images to Instagram via Cloudinary and the Graph API",
	Long: `Poster resizes an image to Instagram's square format, uploads it to
Cloudinary, and publishes it to an Instagram business account through the
Graph API, waiting for Instagram's processing pipeline to finish.

Credentials are read from the environment: CLOUD_NAME, API_KEY, API_SECRET
for Cloudinary and INSTAGRAM_ACCESS_TOKEN, INSTAGRAM_BUSINESS_ACCOUNT_ID for
Instagram. Set FIREBASE_STORAGE_BUCKET to enable --archive.

Examples:
  poster --image ./vase.jpg --caption "New stoneware vase, wood-fired"
  poster -i ./mug.png                  # caption auto-filled with the default
  poster -i ./bowl.jpg --archive       # also record the post in Firestore`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Path to the image to post")
	rootCmd.Flags().StringVarP(&captionFlag, "caption", "c", "", "Post caption (blank uses the default caption)")
	rootCmd.Flags().BoolVar(&archiveFlag, "archive", false, "Record the post in Firestore and archive the original image")
	rootCmd.MarkFlagRequired("image")
	rootCmd.Version = fmt.Sprintf("%s (built %s)", commitHash, buildTime)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	initStart := time.Now()
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Incomplete configuration")
	}

	uploader, err := cloudinary.NewClient(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Cloudinary client")
	}

	igClient := instagram.NewClient(cfg.Instagram.AccessToken, cfg.Instagram.BusinessAccountID)

	engine := publish.NewEngine(
		publish.Credentials{
			AccessToken: cfg.Instagram.AccessToken,
			AccountID:   cfg.Instagram.BusinessAccountID,
		},
		uploader,
		igClient,
		publish.NormalizeFunc(mediaprep.Normalize),
	)

	logging.NewStartupLogger("poster").
		CommitHash(commitHash).
		BuildTime(buildTime).
		Config("cloudinaryCloud", cfg.Cloudinary.CloudName).
		Config("instagramAccount", cfg.Instagram.BusinessAccountID).
		Feature("firebase", cfg.Firebase.Enabled()).
		Feature("archive", archiveFlag).
		InitDuration(time.Since(initStart)).
		Log()

	ctx := context.Background()

	mediaprep.LogImageContext(imageFlag)

	result := engine.Publish(ctx, imageFlag, captionFlag)

	if archiveFlag {
		recordPost(ctx, cfg, result)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
	fmt.Println(string(out))

	if !result.Success {
		os.Exit(1)
	}
}

// recordPost persists the outcome to Firebase. Best-effort: archival must
// never change the publish result.
func recordPost(ctx context.Context, cfg *config.Config, result publish.Result) {
	if !cfg.Firebase.Enabled() {
		log.Warn().Msg("--archive requested but FIREBASE_STORAGE_BUCKET is not set")
		return
	}

	app, err := firebase.NewApp(ctx, firebase.Config{
		MountedCredentialsFile: cfg.Firebase.MountedCredentialsFile,
		CredentialsFile:        cfg.Firebase.CredentialsFile,
		StorageBucket:          cfg.Firebase.StorageBucket,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Firebase unavailable, skipping archive")
		return
	}
	defer app.Close()

	if err := app.RecordPost(ctx, firebase.PostRecord{
		Status:   result.Status,
		Success:  result.Success,
		MediaID:  result.MediaID,
		Caption:  result.Caption,
		ImageURL: result.ImageURL,
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to record post in Firestore")
	}

	if object, err := app.ArchiveOriginal(ctx, imageFlag); err != nil {
		log.Warn().Err(err).Msg("Failed to archive original image")
	} else {
		log.Info().Str("object", object).Msg("Original image archived")
	}
}
