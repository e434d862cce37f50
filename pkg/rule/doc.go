/*
Package rule implements the text rewrites that turn Hugo shortcode markup
into Workshop Studio directives.

	+-----------+     +-----------+     +-----------+
	|  Rule 1   | --> |  Rule 2   | --> |  Rule N   |
	| code-block|     |  notice-* |     | download  |
	+-----------+     +-----------+     +-----------+

🎯 Purpose:
- One small type per rewrite, each a pure function of (text, path)
- A Catalog that fixes the order the rules run in

🔄 Rules (in catalog order):
 1. code-block: ```lang attrs fences to :::code{language=lang}
 2. notice-warning, notice-info, notice-tip, notice-note: {{% notice %}} to :::alert
 3. image-path: ](/images/ to ](/static/images/
 4. escape-reserved: escapes a phrase that collides with directive syntax
 5. index-front-matter: strips headings and chapter: from _index.md
 6. paired-tabs: two-tab {{< tabs >}} blocks to ::::tabs
 7. download-button: {{% button ... fa-download %}} to ::button

📝 A rule that does not find its markup returns the text unchanged. Rules
never report errors; malformed input passes through.

🔍 Example:

	catalog, err := rule.NewCatalog(rule.Options{})
	out := catalog.Apply(text, "/src/content/intro/_index.md")
*/
package rule
