package main

import (
	"context"
	"log"
	"os"

	"dagger.io/dagger"
)

const goImage = "golang:1.24"

func main() {
	ctx := context.Background()

	// Initialize the Dagger client
	client, err := dagger.Connect(ctx, dagger.WithLogOutput(os.Stdout))
	if err != nil {
		panic(err)
	}
	defer client.Close()

	// Mount the module root, minus CI code and reference material, at /src in the container.
	source := client.Container().
		From(goImage).
		WithDirectory(
			"/src",
			client.Host().Directory("."), dagger.ContainerWithDirectoryOpts{
				Exclude: []string{"ci/", "_examples/", "bin/"},
			},
		).
		WithWorkdir("/src")

	out, err := source.WithExec([]string{"go", "test", "-race", "./..."}).Stderr(ctx)
	if err != nil {
		log.Fatalf("test: error running tests [%v]", err)
	}
	log.Printf("test: finished running tests [%s]", out)
}
