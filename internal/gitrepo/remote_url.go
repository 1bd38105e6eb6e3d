package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	gitProtocolPrefixConstant           = "git://"
	userInfoDelimiterConstant           = "@"
	scpPathDelimiterConstant            = ":"
	portDelimiterConstant               = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	githubHostConstant                  = "github.com"
	githubWWWHostConstant               = "www.github.com"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant        = "remote url is empty"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	ownerRepositoryMessageConstant      = "remote path must be owner/repository"
	nonGitHubHostTemplateConstant       = "remote host %s is not %s"
)

// RemoteProtocol enumerates recognised git remote protocols.
type RemoteProtocol string

// Recognised remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
	RemoteProtocolGit   RemoteProtocol = RemoteProtocol("git")
)

// RemoteURL represents a structured git remote URL.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts a textual remote URL into a structured representation.
//
// Accepted shapes are scp-like SSH (git@host:owner/repo.git), ssh://, https://,
// http:// and git:// URLs. Userinfo and ports are discarded and a trailing
// ".git" or "/" is ignored.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	lowerRemote := strings.ToLower(trimmedRemote)
	switch {
	case strings.HasPrefix(lowerRemote, sshProtocolPrefixConstant):
		return parseHierarchicalRemote(remote, trimmedRemote[len(sshProtocolPrefixConstant):], RemoteProtocolSSH)
	case strings.HasPrefix(lowerRemote, httpsProtocolPrefixConstant):
		return parseHierarchicalRemote(remote, trimmedRemote[len(httpsProtocolPrefixConstant):], RemoteProtocolHTTPS)
	case strings.HasPrefix(lowerRemote, httpProtocolPrefixConstant):
		return parseHierarchicalRemote(remote, trimmedRemote[len(httpProtocolPrefixConstant):], RemoteProtocolHTTP)
	case strings.HasPrefix(lowerRemote, gitProtocolPrefixConstant):
		return parseHierarchicalRemote(remote, trimmedRemote[len(gitProtocolPrefixConstant):], RemoteProtocolGit)
	case strings.Contains(trimmedRemote, userInfoDelimiterConstant):
		return parseSCPRemote(remote, trimmedRemote)
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

// ParseGitHubRemoteURL parses remote and rejects hosts other than github.com.
func ParseGitHubRemoteURL(remote string) (RemoteURL, error) {
	remoteURL, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		return RemoteURL{}, parseError
	}

	normalizedHost := strings.ToLower(remoteURL.Host)
	if normalizedHost != githubHostConstant && normalizedHost != githubWWWHostConstant {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: fmt.Sprintf(nonGitHubHostTemplateConstant, remoteURL.Host, githubHostConstant)}
	}

	return remoteURL, nil
}

// parseSCPRemote handles user@host:owner/repo.
func parseSCPRemote(originalRemote string, remote string) (RemoteURL, error) {
	userSplitIndex := strings.Index(remote, userInfoDelimiterConstant)
	hostAndPath := remote[userSplitIndex+1:]

	host, path, found := strings.Cut(hostAndPath, scpPathDelimiterConstant)
	if !found || len(host) == 0 || strings.Contains(host, pathSeparatorConstant) {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: invalidRemoteURLMessageConstant}
	}

	return buildRemoteURL(originalRemote, RemoteProtocolSSH, host, path)
}

// parseHierarchicalRemote handles [userinfo@]host[:port]/owner/repo once the scheme is removed.
func parseHierarchicalRemote(originalRemote string, remainder string, protocol RemoteProtocol) (RemoteURL, error) {
	authority, path, found := strings.Cut(remainder, pathSeparatorConstant)
	if !found {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: invalidRemoteURLMessageConstant}
	}

	if userInfoIndex := strings.LastIndex(authority, userInfoDelimiterConstant); userInfoIndex >= 0 {
		authority = authority[userInfoIndex+1:]
	}
	host, _, _ := strings.Cut(authority, portDelimiterConstant)
	if len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: invalidRemoteURLMessageConstant}
	}

	return buildRemoteURL(originalRemote, protocol, host, path)
}

func buildRemoteURL(originalRemote string, protocol RemoteProtocol, host string, path string) (RemoteURL, error) {
	owner, repository, splitError := splitOwnerAndRepository(originalRemote, path)
	if splitError != nil {
		return RemoteURL{}, splitError
	}
	return RemoteURL{Protocol: protocol, Host: host, Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(originalRemote string, path string) (string, string, error) {
	trimmedPath := strings.Trim(path, pathSeparatorConstant)
	segments := strings.Split(trimmedPath, pathSeparatorConstant)
	if len(segments) != 2 {
		return "", "", RemoteURLParseError{Input: originalRemote, Message: ownerRepositoryMessageConstant}
	}

	owner := segments[0]
	repository := strings.TrimSuffix(segments[1], gitSuffixConstant)
	if len(owner) == 0 || len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: originalRemote, Message: ownerRepositoryMessageConstant}
	}
	return owner, repository, nil
}
