package loader

import "fmt"

// ForExtensions builds the extension-to-loader map for a directory loader.
// ".json" is always registered, using textPointer.
func ForExtensions(extensions []string, textPointer string) (map[string]Loader, error) {
	jsonLoader, err := NewJSONLoader(textPointer)
	if err != nil {
		return nil, err
	}
	loaders := map[string]Loader{".json": jsonLoader}

	for _, ext := range extensions {
		switch normalizeExt(ext) {
		case ".json":
		case ".txt":
			loaders[".txt"] = TextLoader{}
		case ".pdf":
			loaders[".pdf"] = PDFLoader{}
		default:
			return nil, fmt.Errorf("unsupported extension %q", ext)
		}
	}
	return loaders, nil
}
