package tones

import "github.com/benvon/thai-toolkit/internal/models"

// toneExplanations describe how to produce each tone.
var toneExplanations = map[models.Tone]string{
	models.ToneMid:     "Flat, neutral pitch - like speaking normally",
	models.ToneLow:     "Start and stay at a low pitch - like mumbling",
	models.ToneHigh:    "Start and stay at a high pitch - like surprise",
	models.ToneFalling: "Start high, drop down - like expressing disappointment",
	models.ToneRising:  "Start low, rise up - like asking a question",
}

func word(thai, romanization string, tone models.Tone, meaning string) models.ToneWord {
	return models.ToneWord{Thai: thai, Romanization: romanization, Tone: tone, Meaning: meaning, ToneExplanation: toneExplanations[tone]}
}

// library is the fixed set of pre-authored tone contrasts served before any
// generated sets.
var library = []models.ToneSet{
	{
		BaseSound: "mai",
		Words: []models.ToneWord{
			word("ไม่", "mai", models.ToneFalling, "no, not"),
			word("ใหม่", "mai", models.ToneLow, "new"),
			word("ไม้", "mai", models.ToneHigh, "wood, stick"),
			word("ไหม้", "mai", models.ToneFalling, "burn"),
			word("ไหม", "mai", models.ToneRising, "question particle"),
		},
	},
	{
		BaseSound: "khao",
		Words: []models.ToneWord{
			word("เข้า", "khao", models.ToneFalling, "to enter"),
			word("ข้าว", "khao", models.ToneFalling, "rice"),
			word("เขา", "khao", models.ToneRising, "he/she/they, mountain"),
			word("ขาว", "khao", models.ToneRising, "white"),
		},
	},
	{
		BaseSound: "ma",
		Words: []models.ToneWord{
			word("มา", "ma", models.ToneMid, "to come"),
			word("หมา", "ma", models.ToneRising, "dog"),
			word("ม้า", "ma", models.ToneHigh, "horse"),
		},
	},
	{
		BaseSound: "kao",
		Words: []models.ToneWord{
			word("เก้า", "kao", models.ToneFalling, "nine"),
			word("เกา", "kao", models.ToneMid, "to scratch"),
			word("ก้าว", "kao", models.ToneFalling, "step"),
			word("เก่า", "kao", models.ToneLow, "old"),
		},
	},
	{
		BaseSound: "naa",
		Words: []models.ToneWord{
			word("หน้า", "na", models.ToneFalling, "face, front, next"),
			word("นา", "na", models.ToneMid, "rice field"),
			word("หนา", "na", models.ToneRising, "thick"),
			word("น่า", "na", models.ToneFalling, "should, worthy of"),
		},
	},
	{
		BaseSound: "suai",
		Words: []models.ToneWord{
			word("สวย", "suai", models.ToneRising, "beautiful"),
			word("ซวย", "suai", models.ToneMid, "unlucky"),
		},
	},
	{
		BaseSound: "klai",
		Words: []models.ToneWord{
			word("ใกล้", "klai", models.ToneFalling, "near"),
			word("ไกล", "klai", models.ToneMid, "far"),
		},
	},
	{
		BaseSound: "sii",
		Words: []models.ToneWord{
			word("สี่", "si", models.ToneLow, "four"),
			word("สี", "si", models.ToneRising, "color"),
		},
	},
	{
		BaseSound: "paa",
		Words: []models.ToneWord{
			word("ป่า", "pa", models.ToneLow, "forest"),
			word("ป้า", "pa", models.ToneFalling, "aunt (older)"),
			word("ปา", "pa", models.ToneMid, "to throw"),
		},
	},
	{
		BaseSound: "phan",
		Words: []models.ToneWord{
			word("พัน", "phan", models.ToneMid, "thousand"),
			word("ผัน", "phan", models.ToneRising, "to vary"),
		},
	},
}

// Library returns a copy of the fixed tone sets.
func Library() []models.ToneSet {
	out := make([]models.ToneSet, len(library))
	for i, s := range library {
		out[i] = models.ToneSet{BaseSound: s.BaseSound, Words: append([]models.ToneWord(nil), s.Words...)}
	}
	return out
}
