package baseline

import "github.com/ymtools/ivrdir/pkg/directory"

// defaultDataset returns the built-in seed tree: three top-level IVR
// extensions (news, Torah classes, music) with a few nested folders and
// audio files. Folder names are the digit callers dial; the description
// travels in the metadata field.
func defaultDataset() []directory.Entry {
	return []directory.Entry{
		// Root level
		{ID: "f1", Name: "1", Metadata: "חדשות והודעות", Path: "1", Kind: directory.KindFolder, ModifiedAt: "25.10.2023"},
		{ID: "f2", Name: "2", Metadata: "שיעורי תורה", Path: "2", Kind: directory.KindFolder, ModifiedAt: "24.10.2023"},
		{ID: "f3", Name: "3", Metadata: "מוזיקה וניגונים", Path: "3", Kind: directory.KindFolder, ModifiedAt: "20.10.2023"},

		// Extension 1 (news)
		{ID: "f4", Name: "1", Metadata: "מבזקים כלליים", Path: "1/1", Kind: directory.KindFolder, ModifiedAt: "25.10.2023"},
		{ID: "f5", Name: "2", Metadata: "הודעות הקהילה", Path: "1/2", Kind: directory.KindFolder, ModifiedAt: "23.10.2023"},
		{ID: "f101", Name: "פתיח ראשי.wav", Path: "1/M0000.wav", Kind: directory.KindMedia, SizeBytes: 2621440,
			ModifiedAt: "25.10.2023", ContentURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3", Extension: "wav"},

		// Extension 1/1 (general news)
		{ID: "f102", Name: "עדכון בוקר.wav", Path: "1/1/001.wav", Kind: directory.KindMedia, SizeBytes: 5347738,
			ModifiedAt: "26.10.2023", ContentURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3", Extension: "wav"},

		// Extension 2 (Torah classes)
		{ID: "f6", Name: "1", Metadata: "דף היומי", Path: "2/1", Kind: directory.KindFolder, ModifiedAt: "26.10.2023"},
		{ID: "f7", Name: "2", Metadata: "פרשת שבוע", Path: "2/2", Kind: directory.KindFolder, ModifiedAt: "26.10.2023"},
		{ID: "f201", Name: "הקדמה לשיעורים.wav", Path: "2/M0000.wav", Kind: directory.KindMedia, SizeBytes: 1258291,
			ModifiedAt: "01.09.2023", ContentURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3", Extension: "wav"},

		// Extension 2/1 (daf yomi)
		{ID: "f202", Name: "מסכת קידושין דף ב.wav", Path: "2/1/002.wav", Kind: directory.KindMedia, SizeBytes: 47185920,
			ModifiedAt: "26.10.2023", ContentURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-4.mp3", Extension: "wav"},

		// Extension 3 (music)
		{ID: "f301", Name: "ניגון שמחה.wav", Path: "3/001.wav", Kind: directory.KindMedia, SizeBytes: 4718592,
			ModifiedAt: "15.10.2023", ContentURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-8.mp3", Extension: "wav"},
	}
}
