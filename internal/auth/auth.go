// Package auth drives the GDO login flow.
package auth

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"gdoscore/config"
	"gdoscore/internal/browser"
	"gdoscore/internal/selectors"
	"gdoscore/logger"
	"gdoscore/pkg/errors"
)

const (
	elementWait   = 5 * time.Second
	postSubmit    = 3 * time.Second
	loginAttempts = 3
)

// Login signs in through the top page. The form markup has changed
// shape before, so submission tries each known strategy in order and
// falls back to submitting the form from script.
func Login(gw *browser.Gateway, cfg *config.Config) error {
	log := logger.ForComponent("auth")

	if err := gw.Navigate(cfg.BaseURL); err != nil {
		return errors.NewLogin("load top page", err)
	}

	closeModalIfPresent(gw.Page(), log)

	if err := openLoginForm(gw, log); err != nil {
		gw.Snapshot("login_form_not_found")
		return err
	}

	if err := fillCredentials(gw.Page(), cfg); err != nil {
		gw.Snapshot("login_fill_failed")
		return err
	}

	if err := submitLoginForm(gw.Page(), log); err != nil {
		gw.Snapshot("login_submit_failed")
		return err
	}
	time.Sleep(postSubmit)

	if !loggedIn(gw.Page()) {
		gw.Snapshot("login_not_verified")
		return errors.NewLogin("login button still present after submit", nil)
	}

	log.Info().Msg("Logged in")
	return nil
}

// closeModalIfPresent dismisses the occasional campaign modal that
// covers the login button
func closeModalIfPresent(page *rod.Page, log *logger.Logger) {
	el, err := page.Timeout(2 * time.Second).Element(selectors.Login.ModalCloseButton)
	if err != nil {
		return
	}
	if visible, _ := el.Visible(); !visible {
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		log.Warn().Err(err).Msg("Failed to close campaign modal")
		return
	}
	log.Debug().Msg("Closed campaign modal")
}

// openLoginForm clicks through to the login form, retrying since the
// button sometimes needs a moment to become clickable
func openLoginForm(gw *browser.Gateway, log *logger.Logger) error {
	var lastErr error
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		el, err := gw.Page().Timeout(elementWait).Element(selectors.Login.LoginButton)
		if err != nil {
			lastErr = err
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("Login button click failed")
			time.Sleep(time.Second)
			continue
		}
		_, err = gw.Page().Timeout(elementWait).Element(selectors.Login.UsernameInput)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return errors.NewLogin("open login form", lastErr)
}

func fillCredentials(page *rod.Page, cfg *config.Config) error {
	username, err := page.Timeout(elementWait).Element(selectors.Login.UsernameInput)
	if err != nil {
		return errors.NewLogin("find username input", err)
	}
	if err := username.Input(cfg.LoginID); err != nil {
		return errors.NewLogin("fill username", err)
	}

	password, err := page.Timeout(elementWait).Element(selectors.Login.PasswordInput)
	if err != nil {
		return errors.NewLogin("find password input", err)
	}
	if err := password.Input(cfg.Password); err != nil {
		return errors.NewLogin("fill password", err)
	}
	return nil
}

// submitLoginForm works through the known submit controls, then falls
// back to submitting the form from script
func submitLoginForm(page *rod.Page, log *logger.Logger) error {
	for _, strategy := range selectors.Login.SubmitButtons {
		el, err := page.Timeout(2 * time.Second).Element(strategy.Selector)
		if err != nil {
			continue
		}
		if visible, _ := el.Visible(); !visible {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			log.Warn().Err(err).Str("strategy", strategy.Name).Msg("Submit click failed")
			continue
		}
		log.Debug().Str("strategy", strategy.Name).Msg("Submitted login form")
		return nil
	}

	if _, err := page.Eval(`() => {
		const form = document.querySelector('form');
		if (!form) throw new Error('no form');
		form.submit();
	}`); err != nil {
		return errors.NewLogin("submit login form", err)
	}
	log.Debug().Str("strategy", "script-submit").Msg("Submitted login form")
	return nil
}

// loggedIn checks that the top page no longer offers the login button
func loggedIn(page *rod.Page) bool {
	el, err := page.Timeout(2 * time.Second).Element(selectors.Login.LoginButton)
	if err != nil {
		return true
	}
	visible, err := el.Visible()
	if err != nil {
		return true
	}
	return !visible
}
