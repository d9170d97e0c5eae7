package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

// builtinSeeds cover every node kind at least once.
var builtinSeeds = []string{
	``,
	`<lit>hello</lit>`,
	`<string field="Citation"/>`,
	`<para><string field="Form" ws="vernacular"/><lit> </lit><int field="Homograph"/></para>`,
	`<div><innerpile><string field="Citation"/></innerpile></div>`,
	`<seq field="Senses" layout="fuzz" sep=", " number="%d) "/>`,
	`<seq field="Senses" number="%A. " firstOnly="true"><string field="Gloss" ws="all analysis"/></seq>`,
	`<obj field="Main"><multiling ws="all analysis" sep="/"><string field="Gloss" ws="current"/></multiling></obj>`,
	`<if field="Homograph" intequals="2"><lit>two</lit></if><ifnot field="Citation" stringequals=""><lit>has</lit></ifnot>`,
	`<choice><where is="Entry"><lit>e</lit></where><otherwise><lit>o</lit></otherwise></choice>`,
	`<part ref="missing"/><sublayout name="fuzz" group="para"/>`,
	`<table><row><cell><lit>a</lit></cell><cell><lit>b</lit></cell></row></table>`,
	`<computed method="Gloss"/><lit>` + "é" + `</lit>`,
	`<seq field="Senses" sortby="Gloss"/><seq field="Senses" typeorder="rel"/>`,
	`<para><para><para><para><lit>deep</lit></para></para></para></para>`,
	`<obj field="Main" layout="nope"/>`,
	`<seq field="Citation"/>`,
	`<string/>`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.xml layout file under testdata, if present.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".xml" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
