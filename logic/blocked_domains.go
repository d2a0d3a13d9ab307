package logic

import (
	"bufio"
	"fed_core/shared"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_blocked_domains.go -package mocks fed_core/logic IBlockedDomains

const blockListReloadSec = 60

// IBlockedDomains tells if we refuse to federate with an instance.
type IBlockedDomains interface {
	IsBlocked(host string) (bool, error)
}

type blockedDomains struct {
	fileName string
	mu       sync.Mutex
	loadedAt time.Time
	domains  map[string]struct{}
}

func NewBlockedDomains(cfg *shared.Config) IBlockedDomains {
	return &blockedDomains{fileName: cfg.BlockedDomainsFile}
}

// IsBlocked matches host and all its parent domains against the block list file,
// which has one domain per line. Lines starting with # are ignored.
func (bd *blockedDomains) IsBlocked(host string) (bool, error) {

	if bd.fileName == "" {
		return false, nil
	}
	bd.mu.Lock()
	defer bd.mu.Unlock()
	if bd.domains == nil || time.Since(bd.loadedAt) > blockListReloadSec*time.Second {
		if err := bd.load(); err != nil {
			return false, err
		}
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for host != "" {
		if _, found := bd.domains[host]; found {
			return true, nil
		}
		_, parent, ok := strings.Cut(host, ".")
		if !ok {
			break
		}
		host = parent
	}
	return false, nil
}

func (bd *blockedDomains) load() error {
	readFile, err := os.Open(bd.fileName)
	if err != nil {
		return err
	}
	defer readFile.Close()
	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)

	domains := map[string]struct{}{}
	for fileScanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(fileScanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains[line] = struct{}{}
	}
	if err = fileScanner.Err(); err != nil {
		return err
	}
	bd.domains = domains
	bd.loadedAt = time.Now()
	return nil
}
