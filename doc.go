/*
Package dtree induces classification trees from numerically encoded samples
and uses them to classify new ones.

A Builder grows a tree.Tree over a dataset.Matrix whose columns are described
by a feature.Catalog. It recursively partitions the training samples, asking
a SplitSelector for the feature to branch on at every node until a
StopCriterion is met. Two selectors are available: ID3, which maximises the
information gain of categorical partitions, and C45, which maximises the gain
ratio and searches a binary threshold for continuous features.

Classify walks a grown tree for a sample and Validate reports the accuracy
of a tree over a set of labeled samples.
*/
package dtree
