package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileWriterOptions configures the safety limits of the file writer tool.
type FileWriterOptions struct {
	// MaxFileSize caps content length in bytes. Defaults to 1 MiB.
	MaxFileSize int
	// AllowedExtensions, when non-empty, is a whitelist of permitted
	// extensions (including the dot). Empty means allow all.
	AllowedExtensions []string
}

type fileWriterArgs struct {
	Path    string `json:"path" description:"File path relative to the working directory"`
	Content string `json:"content" description:"Content to write to the file"`
}

// NewFileWriterTool returns a tool that creates or overwrites files inside
// the tool context's working directory. Paths are validated against
// traversal; size and extension limits are enforced before any write.
func NewFileWriterTool(optFns ...func(o *FileWriterOptions)) Tool {
	opts := FileWriterOptions{MaxFileSize: 1 << 20}
	for _, fn := range optFns {
		fn(&opts)
	}

	return NewFunctionToolFromStruct(
		"write_file",
		"Create a new file or overwrite an existing file with content inside the working directory.",
		fileWriterArgs{},
		func(tc *Context, args map[string]any) (any, error) {
			path, _ := args["path"].(string)
			content, _ := args["content"].(string)

			workDir := tc.WorkDir()
			if workDir == "" {
				return nil, NewToolError("write_file", "no working directory configured", "EXECUTION_ERROR")
			}

			if err := validateWritePath(workDir, path, opts.AllowedExtensions); err != nil {
				return nil, NewToolError("write_file", err.Error(), "VALIDATION_ERROR")
			}

			if len(content) > opts.MaxFileSize {
				return nil, NewToolError("write_file",
					fmt.Sprintf("content too large: %d bytes (max: %d)", len(content), opts.MaxFileSize),
					"VALIDATION_ERROR")
			}

			fullPath := filepath.Join(workDir, path)
			_, statErr := os.Stat(fullPath)
			existed := statErr == nil

			if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}
			if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
				return nil, fmt.Errorf("failed to write file: %w", err)
			}

			action := "created"
			if existed {
				action = "overwritten"
			}

			return map[string]any{
				"path":   path,
				"size":   len(content),
				"action": action,
			}, nil
		},
	)
}

// validateWritePath rejects absolute paths, traversal outside the working
// directory and disallowed extensions.
func validateWritePath(workDir, path string, allowedExts []string) error {
	if path == "" {
		return fmt.Errorf("path must not be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("absolute paths not allowed, use relative paths")
	}

	cleaned := filepath.Clean(path)
	if strings.Contains(cleaned, "..") {
		return fmt.Errorf("directory traversal not allowed")
	}

	absWorkDir, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("invalid working directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(workDir, cleaned))
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(absPath, absWorkDir+string(filepath.Separator)) {
		return fmt.Errorf("path escapes working directory")
	}

	if len(allowedExts) > 0 {
		ext := filepath.Ext(path)
		for _, allowed := range allowedExts {
			if ext == allowed {
				return nil
			}
		}
		return fmt.Errorf("file extension %q not allowed (allowed: %v)", ext, allowedExts)
	}

	return nil
}
