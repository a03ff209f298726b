// Package evergreen provides the building blocks of an Evergreen project
// configuration: commands, tasks, task groups and build variants.
//
// Tasks, task groups and variants implement [value.ConfigObject], so they
// can be placed directly in a configuration tree and are flattened by the
// renderer. [Project] assembles them into the root mapping Evergreen
// expects, and [Matrix] expands server-version/topology combinations into
// tasks.
package evergreen
