package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"

	"github.com/practiq/go-queryform/pkg/filtering"
	"github.com/practiq/go-queryform/pkg/preview"
	"github.com/practiq/go-queryform/pkg/webform"
)

func main() {
	templatePath := flag.String("template", "", "rigid template JSON path to compile")
	output := flag.String("output", "", "output file (stdout if empty)")
	fromClient := flag.Bool("from-client", false, "compile for the client-facing form, staging uploads in a temp dir")
	decodeFilters := flag.String("decode-filters", "", "filters token to decode")
	decodeSort := flag.String("decode-sort", "", "sort token to decode")
	importPath := flag.String("import", "", "OpenAPI document path to import a template from")
	operation := flag.String("operation", "", "operation ID to import")
	runPreview := flag.Bool("preview", false, "fill the compiled form out in the terminal")
	flag.Parse()

	ctx := context.Background()

	switch {
	case *decodeFilters != "":
		writeOutput(*output, dumpFilters(*decodeFilters))
	case *decodeSort != "":
		writeOutput(*output, dumpSort(*decodeSort))
	case *importPath != "":
		if *operation == "" {
			log.Fatal("-import requires -operation")
		}
		writeOutput(*output, importTemplate(ctx, *importPath, *operation))
	case *templatePath != "":
		writeOutput(*output, compileTemplate(ctx, *templatePath, *fromClient, *runPreview))
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func dumpFilters(token string) []byte {
	type entry struct {
		Name     string             `json:"name"`
		Column   string             `json:"column"`
		Operator filtering.Operator `json:"operator"`
		Value    any                `json:"value"`
	}
	decoded := filtering.NewCodec().DecodeFilters(token)
	entries := []entry{}
	for _, spec := range decoded.Active() {
		entries = append(entries, entry{spec.Name, spec.Column, spec.Operator, spec.Value})
	}
	return marshal(entries)
}

func dumpSort(token string) []byte {
	type entry struct {
		Name      string `json:"name"`
		Column    string `json:"column"`
		Direction string `json:"direction"`
	}
	decoded := filtering.NewCodec().DecodeSort(token)
	entries := []entry{}
	for _, spec := range decoded.Active() {
		entries = append(entries, entry{spec.Name, spec.Column, spec.Value})
	}
	return marshal(entries)
}

func importTemplate(ctx context.Context, path, operationID string) []byte {
	doc, err := webform.LoadOpenAPIFile(ctx, path)
	if err != nil {
		log.Fatalf("Failed to load OpenAPI document: %v", err)
	}
	tmpl, err := webform.ImportOperation(ctx, doc, operationID)
	if err != nil {
		log.Fatalf("Failed to import operation: %v", err)
	}
	return marshal(tmpl)
}

func compileTemplate(ctx context.Context, path string, fromClient, runPreview bool) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read template: %v", err)
	}
	var tmpl webform.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		log.Fatalf("Failed to parse template: %v", err)
	}

	var opts []webform.CompileOption
	if fromClient {
		uploader, err := newDirUploader()
		if err != nil {
			log.Fatalf("Failed to prepare upload staging dir: %v", err)
		}
		opts = append(opts, webform.FromClient(uploader, confirmPrompt))
	}

	fields, err := webform.Compile(tmpl, opts...)
	if err != nil {
		log.Fatalf("Failed to compile template: %v", err)
	}

	if runPreview {
		values, err := preview.New().RunJSON(ctx, fields)
		if err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
		return values
	}
	return marshal(fields)
}

// dirUploader stages attachments in a local directory so -from-client
// compiles have a working pipeline outside the real application.
type dirUploader struct {
	dir string
}

func newDirUploader() (*dirUploader, error) {
	dir, err := os.MkdirTemp("", "queryform-uploads-")
	if err != nil {
		return nil, err
	}
	return &dirUploader{dir: dir}, nil
}

func (u *dirUploader) UploadTemp(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest := filepath.Join(u.dir, filepath.Base(filename))
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return dest, nil
}

func (u *dirUploader) RemoveTemp(ctx context.Context, attachmentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Remove(attachmentID)
}

func confirmPrompt(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message}, &out); err != nil {
		return false, err
	}
	return out, nil
}

func marshal(v any) []byte {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal output: %v", err)
	}
	return out
}

func writeOutput(path string, data []byte) {
	if path == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Output written to %s\n", path)
}
