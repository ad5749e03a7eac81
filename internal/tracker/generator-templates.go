package tracker

type planTemplate struct {
	title     string
	notes     string
	exercises []string
	minutes   int
}

// restTemplates holds the active recovery day of each phase.
//
//nolint:gochecknoglobals // read-only content table.
var restTemplates = map[Phase]planTemplate{
	PhaseIntro: {
		title:     "アクティブ休養（導入期）",
		notes:     "ストレッチ＋深呼吸で回復日。ウォーキングは軽め。",
		exercises: []string{"ストレッチ", "ウォーキング"},
		minutes:   20,
	},
	PhaseBase: {
		title:     "アクティブ休養（基礎期）",
		notes:     "ウォーキング＋ヨガ風ストレッチ。心肺と筋肉の回復日。",
		exercises: []string{"ウォーキング", "ストレッチ"},
		minutes:   25,
	},
	PhaseStrong: {
		title:     "アクティブ休養（強化期）",
		notes:     "疲れに応じてウォーク・ストレッチ中心で調整。",
		exercises: []string{"ウォーキング", "ストレッチ"},
		minutes:   25,
	},
}

// patternTemplates holds the rotating training days of each phase, indexed by dayIndex modulo their count.
//
//nolint:gochecknoglobals // read-only content table.
var patternTemplates = map[Phase][]planTemplate{
	PhaseIntro: {
		{
			title:     "体幹＋姿勢リセット",
			notes:     "プランク・ドローイン・背伸びストレッチで体幹を起こす導入期。",
			exercises: []string{"プランク", "ドローイン", "背伸びストレッチ"},
			minutes:   20,
		},
		{
			title:     "ウォーキング（導入期）",
			notes:     "1kmウォーク＋脚ストレッチ。ラン前の土台作り。",
			exercises: []string{"ウォーキング", "脚ストレッチ"},
			minutes:   20,
		},
		{
			title:     "体幹＋ウォークMIX",
			notes:     "軽い体幹＋短めウォークで全身を慣らす。",
			exercises: []string{"プランク", "ウォーキング"},
			minutes:   25,
		},
	},
	PhaseBase: {
		{
			title:     "上半身ベーシック",
			notes:     "腕立て・軽い懸垂・肩周りストレッチで上半身の土台づくり。",
			exercises: []string{"腕立て伏せ", "懸垂", "背伸びストレッチ"},
			minutes:   25,
		},
		{
			title:     "下半身ベーシック",
			notes:     "スクワット・ランジ・カーフレイズで下半身を鍛える。",
			exercises: []string{"スクワット", "ランジ", "カーフレイズ"},
			minutes:   25,
		},
		{
			title:     "体幹ベーシック",
			notes:     "フロントプランク・ドローインで体幹安定性UP。",
			exercises: []string{"プランク", "ドローイン"},
			minutes:   20,
		},
		{
			title:     "有酸素ラン（基礎）",
			notes:     "1kmラン＋ウォーク。心肺機能をじわじわ上げる。",
			exercises: []string{"ランニング", "ウォーキング"},
			minutes:   25,
		},
	},
	PhaseStrong: {
		{
			title:     "上半身強化（懸垂中心）",
			notes:     "懸垂・腕立ての回数UP。上半身ムキムキ化のメイン日。",
			exercises: []string{"懸垂", "腕立て伏せ", "背伸びストレッチ"},
			minutes:   30,
		},
		{
			title:     "下半身強化（ラン＋筋トレ）",
			notes:     "スクワット＋短めラン。脚力と心肺をまとめて鍛える。",
			exercises: []string{"スクワット", "ランニング", "カーフレイズ"},
			minutes:   30,
		},
		{
			title:     "体幹維持（強化期）",
			notes:     "強度を少し上げたプランク系で体幹を維持・強化。",
			exercises: []string{"プランク", "ドローイン"},
			minutes:   20,
		},
		{
			title:     "ラン強化（ペース走）",
			notes:     "1kmペース走＋少し速めの区間。",
			exercises: []string{"ランニング", "ウォーキング"},
			minutes:   25,
		},
	},
}

// KnownExercises lists every exercise used by the generated plans. Plan forms offer them as choices.
func KnownExercises() []string {
	return []string{
		"プランク", "ドローイン", "背伸びストレッチ", "ストレッチ", "脚ストレッチ", "ウォーキング",
		"ランニング", "腕立て伏せ", "懸垂", "スクワット", "ランジ", "カーフレイズ",
	}
}
