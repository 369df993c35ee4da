package main

import (
	"context"
	"log"
	"os"

	"dagger.io/dagger"
)

const goImage = "golang:1.24"

var platforms = []struct {
	os   string
	arch string
}{
	{"linux", "amd64"},
	{"linux", "arm64"},
	{"darwin", "arm64"},
}

func main() {
	ctx := context.Background()

	client, err := dagger.Connect(ctx, dagger.WithLogOutput(os.Stdout))
	if err != nil {
		panic(err)
	}
	defer client.Close()

	builder := client.Container().
		From(goImage).
		WithDirectory("/src", client.Host().Directory("."), dagger.ContainerWithDirectoryOpts{
			Exclude: []string{"ci/", "_examples/", "bin/"},
		}).
		WithWorkdir("/src").
		WithEnvVariable("CGO_ENABLED", "0")

	for _, platform := range platforms {
		binary := "/out/pins-" + platform.os + "-" + platform.arch
		built := builder.
			WithEnvVariable("GOOS", platform.os).
			WithEnvVariable("GOARCH", platform.arch).
			WithExec([]string{"go", "build", "-trimpath", "-o", binary, "./cmd/pins"})
		if _, err = built.File(binary).Export(ctx, "bin"+binary[len("/out"):]); err != nil {
			log.Fatalf("build: failed to export %s: %v", binary, err)
		}
		log.Printf("build: exported %s", binary)
	}
}
