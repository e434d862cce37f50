// Package config loads mdmigrate settings from a file, the environment and
// command line overrides.
//
//	            +-------------+
//	            |   Config    |
//	            | (Settings)  |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+----+ +-----+----+ +-----+----+
//	|   YAML   | |   HCL    | |   JSON   |
//	|  Parser  | |  Parser  | |  Parser  |
//	+----------+ +----------+ +----------+
//
// 🔄 Flow:
//  1. Find picks the explicit file or the first of DefaultFiles
//  2. A registered Parser decodes it, rejecting unknown keys
//  3. The caller applies flag overrides and ApplyEnv
//  4. Validate resolves roots and fills defaults
//
// 🔍 Example .mdmigrate.yaml:
//
//	source: ./instructions/content
//	destination: ../workshop/content
//	ignore:
//	  - "drafts/**"
//	replacements:
//	  - old: Amplify CLI
//	    new: Amplify Gen 2
//	    file: "**/setup.md"
//
// The same file in HCL, which can read the environment:
//
//	source      = "${env.HOME}/instructions/content"
//	destination = "${env.HOME}/workshop/content"
//
//	replacement {
//	  old = "Amplify CLI"
//	  new = "Amplify Gen 2"
//	}
package config
