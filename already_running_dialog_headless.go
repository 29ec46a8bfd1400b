//go:build headless

package main

func dialogAvailable() bool { return false }

func showAlreadyRunningDialog() {}
