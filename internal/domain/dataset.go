package domain

// WriteResult counts the rows written by a dataset sink.
type WriteResult struct {
	Words    int
	Examples int
}

// WordSample is a sample row shown in the verification report.
type WordSample struct {
	Word         string       `json:"word"`
	Definition   string       `json:"definition"`
	PartOfSpeech PartOfSpeech `json:"pos"`
}

// DatasetStats are the aggregate figures read back from a written dataset.
// FileSizeBytes is negative when the sink has no single backing file.
type DatasetStats struct {
	TotalWords        int
	TotalExamples     int
	WordsWithExamples int
	WordsWithPhonetic int
	LevelCounts       map[Level]int
	POSCounts         map[PartOfSpeech]int
	Samples           map[Level][]WordSample
	FileSizeBytes     int64
}

// SampleLimit is the number of sample words read per level.
const SampleLimit = 5
