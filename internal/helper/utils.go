package helper

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"industry-rag/internal/models"
)

// GenerateUUID creates a random unique UUID string
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %v", err)
	}
	return id.String(), nil
}

// Fingerprint returns the content hash used as a passage identity. It is a
// dedup key, not a security boundary.
func Fingerprint(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// DedupDocuments filters out documents with empty or whitespace-only content
// and collapses duplicate texts by fingerprint. The last occurrence of a
// duplicate wins for metadata, the passage order of first occurrence is kept.
func DedupDocuments(docs []models.SearchResult) []models.Passage {
	var passages []models.Passage
	index := make(map[string]int)
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		id := Fingerprint(doc.Content)
		source := doc.URL
		if source == "" {
			source = "local"
		}
		p := models.Passage{
			ID:      id,
			Content: doc.Content,
			Metadata: map[string]string{
				"source": source,
			},
		}
		if doc.Title != "" {
			p.Metadata["title"] = doc.Title
		}
		if i, ok := index[id]; ok {
			passages[i] = p
			continue
		}
		index[id] = len(passages)
		passages = append(passages, p)
	}
	return passages
}

// CreateFolder creates the folder if it does not exist
func CreateFolder(path string) error {
	return os.MkdirAll(path, 0755)
}

// pretty print
func PrettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Msg("Error pretty printing")
	}
	fmt.Println(string(b))
}
