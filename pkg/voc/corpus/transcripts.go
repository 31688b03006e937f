package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const transcriptFile = "transcript.json"

// LoadTranscriptDirs reads one record per sub-folder of root holding a
// transcript.json with a "text" member. Folder names follow
// participant_activity..._x_y_z; the last three parts are ignored.
// Folders that do not parse are skipped.
func LoadTranscriptDirs(root string, opts Options) ([]Record, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	if opts.Source == "" {
		opts.Source = sourceName(root)
	}
	log := opts.logger()

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var records []Record
	for _, name := range names {
		participant, activity, ok := ParseFolderName(name)
		if !ok {
			log.Debug("skipping transcript folder", zap.String("folder", name))
			continue
		}
		path := filepath.Join(root, name, transcriptFile)
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Warn("unreadable transcript", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		var doc struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Warn("malformed transcript", zap.String("path", path), zap.Error(err))
			continue
		}
		records = append(records, Record{
			ID:          name,
			Source:      opts.Source,
			Text:        doc.Text,
			Participant: participant,
			Activity:    activity,
			Fields:      map[string]any{"text": doc.Text},
		})
	}
	return records, nil
}

// ParseFolderName splits participant_activity..._x_y_z. With more than three
// parts the activity is everything between the participant and the last
// three parts, falling back to the second part.
func ParseFolderName(name string) (participant, activity string, ok bool) {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return "", "", false
	}
	participant = parts[0]
	activity = parts[1]
	if len(parts) > 4 {
		activity = strings.Join(parts[1:len(parts)-3], "_")
	}
	return participant, activity, true
}
