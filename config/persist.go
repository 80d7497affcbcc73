package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
)

// Save writes cfg to path as TOML, rotating backups first so the previous
// three versions survive. A watcher on the same path is told about the
// write so it does not loop on its own reload.
func Save(path string, cfg *Config) error {
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "create backup")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	markOwnWrite(path)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	logger.Infow("config saved", logger.FieldPath, path)
	return nil
}

// createBackup rotates .back1-.back3 before modifying the config.
func createBackup(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // nothing to back up
	}

	back3 := path + ".back3"
	back2 := path + ".back2"
	back1 := path + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("failed to delete oldest backup", logger.FieldPath, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config for backup")
	}
	if err := os.WriteFile(back1, content, 0644); err != nil {
		return errors.Wrap(err, "create .back1")
	}
	return nil
}
