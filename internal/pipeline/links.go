package pipeline

import (
	"net/url"
	"strings"

	"github.com/inkpost/mdrender/internal/htmltree"
)

// linkIconStage tags links with data-link-icon and data-link-icon-type
// so CSS can draw an icon next to them. File extensions take priority
// over hostname patterns. Links carrying the icon-not class opt out.
func linkIconStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	icons := c.config().LinkIcons
	changed := false

	for _, a := range htmltree.ElementsByTag(doc.Body(), "a") {
		if htmltree.HasClass(a, "icon-not") || htmltree.HasAttr(a, "data-link-icon") {
			continue
		}
		href := htmltree.GetAttr(a, "href")
		if href == "" {
			continue
		}
		u, err := url.Parse(href)
		if err != nil {
			continue
		}

		path := strings.ToLower(u.Path)
		matched := false
		for _, fi := range icons.Files {
			for _, ext := range fi.Extensions {
				if strings.HasSuffix(path, "."+ext) {
					htmltree.SetAttr(a, "data-link-icon", fi.Icon)
					htmltree.SetAttr(a, "data-link-icon-type", fi.Kind)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}

		host := u.Hostname()
		if !matched && host != "" {
			for i := range icons.Hosts {
				if icons.Hosts[i].Match(host) {
					htmltree.SetAttr(a, "data-link-icon", icons.Hosts[i].Icon)
					htmltree.SetAttr(a, "data-link-icon-type", icons.Hosts[i].Kind)
					matched = true
					break
				}
			}
		}
		if matched {
			changed = true
		}
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}

// externalLinkStage marks links leaving the site: target=_blank,
// rel="noopener noreferrer", and the external-link class. Links to the
// configured internal domains and relative links stay untouched.
func externalLinkStage(src string, c *Context) (string, error) {
	doc, err := c.Document(src)
	if err != nil {
		return "", err
	}

	cfg := c.config()
	changed := false

	for _, a := range htmltree.ElementsByTag(doc.Body(), "a") {
		href := htmltree.GetAttr(a, "href")
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			continue
		}
		u, err := url.Parse(href)
		if err != nil {
			continue
		}
		if cfg.IsInternal(u.Hostname()) {
			continue
		}

		htmltree.SetAttr(a, "target", "_blank")
		htmltree.SetAttr(a, "rel", "noopener noreferrer")
		htmltree.AddClass(a, "external-link")
		changed = true
	}

	if !changed {
		return src, nil
	}
	return c.Commit(doc)
}
