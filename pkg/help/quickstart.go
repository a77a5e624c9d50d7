package help

const QuickstartYAML = `# contentc Quick Start

layout:
  content_dir: "content/ (flat, *.yml or *.yaml)"
  output_dir: "src/content/generated/"
  env_override: ".env.local (optional, wins over the process environment)"

file_names:
  "homepage.yml": "page homepage, language en (default)"
  "homepage-es.yml": "page homepage, language es"
  "about-us.yml": "page about, language us (a trailing -xx is always a language)"

commands:
  build: |
    contentc
    contentc build --content-dir content --output-dir src/content/generated

  lookup: |
    contentc lookup --page homepage --lang fr

  list_runs: |
    contentc history runs --limit 10

  run_details: |
    contentc history run 5

placeholders:
  - "${UPPER_SNAKE} in any string or key is replaced from the environment"
  - "Unset variables stay verbatim and are reported as warnings"

defaults:
  - "meta.title: '<Title Cased Page> | <brand>' when missing"
  - "meta.description and meta.keywords: stock values when missing"
  - "meta.language: always the language from the file name"

generated_files:
  - "<page>-<lang>.ts: one module per page key"
  - "index.ts: contentMap, getContent, getContentByPage"
  - "fallback.ts: generateFallbackContent for pages with no content"
  - "Files starting with '// Code generated by contentc' are owned by contentc and pruned when stale"

error_behavior:
  - "Malformed or empty content file: skipped with a warning"
  - "Missing content dir, malformed env file, write failure: exit 1"
  - "Invalid flags: exit 2"
`
