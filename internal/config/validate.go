package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	if err := c.validatePlex(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	name := c.Paths.RootFolderName
	if name == "" {
		return errors.New("paths.root_folder_name must be set")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("paths.root_folder_name must be a single directory name, got %q", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("paths.root_folder_name must not be %q", name)
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateBuild() error {
	if c.Build.Workers < 1 {
		return errors.New("build.workers must be positive")
	}
	return nil
}

func (c *Config) validatePlex() error {
	if !c.Plex.Enabled {
		return nil
	}
	if c.Plex.URL == "" {
		return errors.New("plex.url must be set when plex.enabled is true")
	}
	if c.Plex.Token == "" {
		return errors.New("plex.token must be set when plex.enabled is true (or set PLEX_TOKEN)")
	}
	if c.Plex.RequestTimeout <= 0 {
		return errors.New("plex.request_timeout must be positive (seconds)")
	}
	return nil
}
