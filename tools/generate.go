// Command generate writes spoken announcer clips into the asset directory.
//
//	go run ./tools -dir assets/audio/announcer
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"sfxpool/assets"

	"github.com/Duckduckgot/gtts"
	"github.com/Duckduckgot/gtts/handlers"
	"github.com/Duckduckgot/gtts/voices"
)

var lines = []string{
	"Double kill!",
	"Triple kill!",
	"Killing spree!",
	"Headshot!",
	"Round start",
	"Round over",
	"Objective captured",
	"Reloading",
}

func main() {
	dir := flag.String("dir", "assets/audio/announcer", "output directory")
	lang := flag.String("lang", voices.English, "voice language")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *dir, err)
	}

	speech := gtts.Speech{Folder: *dir, Language: *lang, Handler: &handlers.MPlayer{}}
	for _, text := range lines {
		name := "announcer_" + assets.Slug(text)
		if _, err := speech.CreateSpeechFile(text, name); err != nil {
			log.Fatalf("Error generating %q: %v", text, err)
		}
		fmt.Printf("%s/%s.mp3\n", *dir, name)
	}
}
