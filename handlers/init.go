package handlers

import (
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"chalkcast/assemble"
	"chalkcast/config"
	"chalkcast/ffmpeg"
)

var log *logrus.Logger
var store *sessions.CookieStore
var assembler *assemble.Assembler
var runner ffmpeg.Runner

func Init(logger *logrus.Logger, asm *assemble.Assembler, r ffmpeg.Runner) error {
	log = logger.WithFields(logrus.Fields{
		"component": "handlers",
	}).Logger
	assembler = asm
	runner = r

	// create the cookie store
	key, err := config.GetSessionAuthKey()
	if err != nil {
		return err
	}
	store = sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60, // seconds
		HttpOnly: true,
		Secure:   config.GetSecure(),
	}

	return nil
}

func Fini() {}
