package stage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/flarebyte/sealcheck/internal/manifest"
)

const writeManifestStage = "write-manifest"

func s3Config(meta *Meta) manifest.S3Config {
	s := meta.Settings.S3
	return manifest.S3Config{
		Endpoint:  s.Endpoint,
		Region:    s.Region,
		AccessKey: s.AccessKey,
		SecretKey: s.SecretKey,
		UseSSL:    s.UseSSL,
	}
}

// write-manifest: encode the manifest for its destination and hand it to
// the matching sink. Sink failures are fatal.
func writeManifestRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	if in.Meta == nil || in.Meta.Manifest == nil {
		return Envelope{}, errors.New("write-manifest: manifest has not been built")
	}
	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	sink, err := manifest.Open(in.Meta.Settings.Manifest, stdout, s3Config(in.Meta))
	if err != nil {
		return Envelope{}, fmt.Errorf("write-manifest: %w", err)
	}
	if err := manifest.Write(ctx, sink, *in.Meta.Manifest); err != nil {
		return Envelope{}, fmt.Errorf("write-manifest: %w", err)
	}
	deps.log(ctx).Info().Str("manifest", sink.String()).Int("files", len(in.Meta.Manifest.Files)).Msg("manifest written")
	return in, nil
}

func init() { Register(writeManifestStage, writeManifestRunner) }
